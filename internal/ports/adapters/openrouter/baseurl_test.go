package openrouter

import "testing"

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name         string
		baseURL      string
		allowedHosts []string
		wantErr      bool
	}{
		{name: "empty uses default", baseURL: ""},
		{name: "default api host with https", baseURL: "https://api.openrouter.ai/"},
		{name: "reject http by default", baseURL: "http://openrouter.ai", wantErr: true},
		{name: "reject unknown host by default", baseURL: "https://evil.example", wantErr: true},
		{name: "allow configured host", baseURL: "https://proxy.internal", allowedHosts: []string{"proxy.internal"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.baseURL, tt.allowedHosts)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	if got := normalizeBaseURL("  https://openrouter.ai/// "); got != "https://openrouter.ai" {
		t.Fatalf("normalizeBaseURL = %q", got)
	}
	if got := normalizeBaseURL(""); got != defaultBaseURL {
		t.Fatalf("normalizeBaseURL = %q", got)
	}
}
