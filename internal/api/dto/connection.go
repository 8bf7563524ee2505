package dto

import "bip-connector/internal/bip"

type ConnectionPayload struct {
	Name         string `json:"name"`
	BaseURL      string `json:"baseUrl"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	SOAPTemplate string `json:"soapTemplate,omitempty"`
	ProxyURL     string `json:"proxyUrl,omitempty"`
}

// ConnectionView is the outward shape of a stored connection. The
// password never leaves the bridge.
type ConnectionView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BaseURL      string `json:"baseUrl"`
	Username     string `json:"username"`
	SOAPTemplate string `json:"soapTemplate,omitempty"`
	ProxyURL     string `json:"proxyUrl,omitempty"`
}

func (p ConnectionPayload) ToModel() bip.Connection {
	return bip.Connection{
		Name:         p.Name,
		BaseURL:      p.BaseURL,
		Username:     p.Username,
		Password:     p.Password,
		SOAPTemplate: p.SOAPTemplate,
		ProxyURL:     p.ProxyURL,
	}
}

func NewConnectionView(c bip.Connection) ConnectionView {
	return ConnectionView{
		ID:           c.ID,
		Name:         c.Name,
		BaseURL:      c.BaseURL,
		Username:     c.Username,
		SOAPTemplate: c.SOAPTemplate,
		ProxyURL:     c.ProxyURL,
	}
}
