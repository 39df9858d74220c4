package auth

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestRedirectHandler(t *testing.T) {
	tests := []struct {
		name     string
		params   url.Values
		wantCode string
		wantErr  string
	}{
		{
			name:     "valid callback",
			params:   url.Values{"state": {"expected-state"}, "code": {"abc123"}},
			wantCode: "abc123",
		},
		{
			name:    "state mismatch",
			params:  url.Values{"state": {"forged"}, "code": {"abc123"}},
			wantErr: "state mismatch",
		},
		{
			name:    "user denied",
			params:  url.Values{"state": {"expected-state"}, "error": {"access_denied"}},
			wantErr: "access_denied",
		},
		{
			name:    "missing code",
			params:  url.Values{"state": {"expected-state"}},
			wantErr: "no authorization code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/callback?"+tt.params.Encode(), nil)
			done := make(chan callback, 1)
			redirectHandler("expected-state", done)(rec, req)

			cb := <-done
			if tt.wantErr != "" {
				if cb.err == nil {
					t.Fatalf("err = nil, want containing %q", tt.wantErr)
				}
				if !strings.Contains(cb.err.Error(), tt.wantErr) {
					t.Errorf("err = %q, want containing %q", cb.err, tt.wantErr)
				}
				return
			}
			if cb.err != nil {
				t.Fatalf("err = %v, want nil", cb.err)
			}
			if cb.code != tt.wantCode {
				t.Errorf("code = %q, want %q", cb.code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), "Strava connected") {
				t.Error("success page was not served")
			}
		})
	}
}

func TestExtractAthleteID(t *testing.T) {
	base := &oauth2.Token{AccessToken: "tok"}

	withAthlete := base.WithExtra(map[string]interface{}{
		"athlete": map[string]interface{}{"id": float64(42)},
	})
	if got := ExtractAthleteID(withAthlete); got != 42 {
		t.Errorf("ExtractAthleteID = %d, want 42", got)
	}

	if got := ExtractAthleteID(base); got != 0 {
		t.Errorf("ExtractAthleteID without athlete = %d, want 0", got)
	}

	malformed := base.WithExtra(map[string]interface{}{
		"athlete": map[string]interface{}{"id": "not-a-number"},
	})
	if got := ExtractAthleteID(malformed); got != 0 {
		t.Errorf("ExtractAthleteID with malformed id = %d, want 0", got)
	}
}
