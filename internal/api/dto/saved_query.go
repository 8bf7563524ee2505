package dto

import "bip-connector/internal/store"

type SavedQueryPayload struct {
	Name         string `json:"name"`
	ConnectionID string `json:"connectionId,omitempty"`
	SQL          string `json:"sql"`
	RowLimit     int    `json:"rowLimit,omitempty"`
}

type SavedQueryView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ConnectionID string `json:"connectionId,omitempty"`
	SQL          string `json:"sql"`
	RowLimit     int    `json:"rowLimit,omitempty"`
}

func (p SavedQueryPayload) ToModel() store.SavedQuery {
	return store.SavedQuery{
		Name:         p.Name,
		ConnectionID: p.ConnectionID,
		SQL:          p.SQL,
		RowLimit:     p.RowLimit,
	}
}

func NewSavedQueryView(q store.SavedQuery) SavedQueryView {
	return SavedQueryView{
		ID:           q.ID,
		Name:         q.Name,
		ConnectionID: q.ConnectionID,
		SQL:          q.SQL,
		RowLimit:     q.RowLimit,
	}
}
