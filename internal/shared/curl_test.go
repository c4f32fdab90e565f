package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:    "single header with single quotes",
			curlCmd: `curl -H 'Authorization: Bearer token123' https://zametka.example.com`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer token123",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:    "single header with double quotes",
			curlCmd: `curl -H "Authorization: Bearer token123" https://zametka.example.com`,
			wantHeaders: map[string]string{
				"Authorization": "Bearer token123",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:    "multiple headers",
			curlCmd: `curl -H 'Content-Type: application/json' -H 'Accept: application/json' https://zametka.example.com`,
			wantHeaders: map[string]string{
				"Content-Type": "application/json",
				"Accept":       "application/json",
			},
			wantCookie: "",
			wantErr:    false,
		},
		{
			name:        "cookie in -b flag",
			curlCmd:     `curl -b 'access_token=abc123; refresh_token=def456' https://zametka.example.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "access_token=abc123; refresh_token=def456",
			wantErr:     false,
		},
		{
			name:        "cookie header",
			curlCmd:     `curl -H 'Cookie: access_token=abc123' https://zametka.example.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "access_token=abc123",
			wantErr:     false,
		},
		{
			name: "multiline command with backslash continuations",
			curlCmd: `curl 'https://zametka.example.com/note/' \
  -H 'Accept: application/json' \
  -b 'access_token=abc123'`,
			wantHeaders: map[string]string{
				"Accept": "application/json",
			},
			wantCookie: "access_token=abc123",
			wantErr:    false,
		},
		{
			name:    "no headers at all",
			curlCmd: `curl https://zametka.example.com`,
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCurlCommand([]byte(tc.curlCmd))

			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(got.Headers) != len(tc.wantHeaders) {
				t.Errorf("expected %d headers, got %d: %v", len(tc.wantHeaders), len(got.Headers), got.Headers)
			}
			for key, want := range tc.wantHeaders {
				if got.Headers[key] != want {
					t.Errorf("header %s: expected %q, got %q", key, want, got.Headers[key])
				}
			}
			if got.Cookie != tc.wantCookie {
				t.Errorf("expected cookie %q, got %q", tc.wantCookie, got.Cookie)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("parses a saved cURL command", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "request.sh")
		content := `curl -H 'Accept: application/json' -b 'access_token=tok1' https://zametka.example.com`

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write curl file: %v", err)
		}

		got, err := ParseCurlFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Cookie != "access_token=tok1" {
			t.Errorf("unexpected cookie %q", got.Cookie)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/request.sh"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestCookieValue(t *testing.T) {
	headers := &CurlHeaders{
		Cookie: "access_token=abc123; refresh_token=def456; theme=dark",
	}

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{name: "first cookie", cookie: "access_token", want: "abc123"},
		{name: "middle cookie", cookie: "refresh_token", want: "def456"},
		{name: "last cookie", cookie: "theme", want: "dark"},
		{name: "absent cookie", cookie: "session", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := headers.CookieValue(tc.cookie); got != tc.want {
				t.Errorf("CookieValue(%q) = %q, want %q", tc.cookie, got, tc.want)
			}
		})
	}
}
