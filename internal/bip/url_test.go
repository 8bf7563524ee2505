package bip

import "testing"

func TestResolveServiceURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{
			name: "bare host gets service path",
			base: "https://h.example.com",
			want: "https://h.example.com/xmlpserver/services/PublicReportService",
		},
		{
			name: "trailing slash stripped",
			base: "https://h.example.com/",
			want: "https://h.example.com/xmlpserver/services/PublicReportService",
		},
		{
			name: "already resolved left alone",
			base: "https://h.example.com/xmlpserver/services/PublicReportService",
			want: "https://h.example.com/xmlpserver/services/PublicReportService",
		},
		{
			name: "custom xmlpserver path left alone",
			base: "https://h.example.com/xmlpserver/services/v2/ReportService",
			want: "https://h.example.com/xmlpserver/services/v2/ReportService",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveServiceURL(tt.base); got != tt.want {
				t.Fatalf("ResolveServiceURL(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestBuildFetchURL(t *testing.T) {
	target := "https://h.example.com/xmlpserver/services/PublicReportService"
	tests := []struct {
		name  string
		proxy string
		want  string
	}{
		{name: "no proxy", proxy: "", want: target},
		{name: "corsproxy.io special form", proxy: "https://corsproxy.io", want: "https://corsproxy.io/?" + target},
		{name: "plain proxy gains slash", proxy: "https://proxy.example.com", want: "https://proxy.example.com/" + target},
		{name: "proxy ending in slash", proxy: "https://proxy.example.com/", want: "https://proxy.example.com/" + target},
		{name: "proxy ending in question mark", proxy: "https://proxy.example.com/fetch?", want: "https://proxy.example.com/fetch?" + target},
		{name: "proxy ending in equals", proxy: "https://proxy.example.com/fetch?url=", want: "https://proxy.example.com/fetch?url=" + target},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildFetchURL(tt.proxy, target); got != tt.want {
				t.Fatalf("BuildFetchURL(%q) = %q, want %q", tt.proxy, got, tt.want)
			}
		})
	}
}
