package bip

import "strings"

const (
	serviceSegment = "xmlpserver"
	servicePath    = "/xmlpserver/services/PublicReportService"

	// corsProxyIO wants exactly "<proxy>/?<target>"; every other proxy
	// takes the target as a raw path suffix.
	corsProxyIO = "https://corsproxy.io"
)

// ResolveServiceURL appends the report-service path to a base URL unless
// the base already points into the xmlpserver application.
func ResolveServiceURL(base string) string {
	b := strings.TrimSpace(base)
	if strings.Contains(b, serviceSegment) {
		return b
	}
	return strings.TrimSuffix(b, "/") + servicePath
}

// BuildFetchURL prefixes the resolved target with the configured CORS
// proxy. The target is concatenated raw, never URL-encoded; the proxy
// conventions this mirrors expect the full absolute URL as a suffix, not
// as a query parameter value.
func BuildFetchURL(proxy, target string) string {
	p := strings.TrimSpace(proxy)
	if p == "" {
		return target
	}
	if p == corsProxyIO {
		return p + "/?" + target
	}
	if !strings.HasSuffix(p, "?") && !strings.HasSuffix(p, "=") && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p + target
}
