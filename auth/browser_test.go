package auth

import "testing"

func TestOpenBrowserRejectsBadURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"garbage", "://not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := OpenBrowser(tt.url); err == nil {
				t.Errorf("OpenBrowser(%q) succeeded, want error", tt.url)
			}
		})
	}
}
