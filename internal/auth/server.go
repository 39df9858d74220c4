package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	// CallbackPort must match the redirect URI registered with Strava.
	CallbackPort = 8173
	// AuthTimeout bounds how long the callback server waits for the
	// user to finish in the browser.
	AuthTimeout = 5 * time.Minute
)

const connectedPage = `<!DOCTYPE html>
<html>
<head><title>Stratiles</title></head>
<body style="font-family: system-ui; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0;">
<div style="text-align: center;">
<h1 style="color: #FC4C02;">Strava connected</h1>
<p>All done here. Head back to the terminal.</p>
</div>
</body>
</html>`

// callback is what the redirect handler delivers: an authorization
// code or the reason there is none.
type callback struct {
	code string
	err  error
}

// Authenticate runs the browser authorization flow. It serves the
// redirect endpoint on localhost, prints the authorization URL for the
// user to open, and exchanges the returned code for a token.
func Authenticate(ctx context.Context, cfg *oauth2.Config) (*AuthResult, error) {
	state, err := newState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	done := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", redirectHandler(state, done))

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			done <- callback{err: fmt.Errorf("callback server: %w", err)}
		}
	}()
	defer closeQuietly(server)

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Println()
	fmt.Println("To connect your Strava account, open this URL in your browser:")
	fmt.Println()
	fmt.Printf("  %s\n", authURL)
	fmt.Println()
	fmt.Println("Waiting for authorization...")

	var cb callback
	select {
	case cb = <-done:
	case <-time.After(AuthTimeout):
		return nil, fmt.Errorf("authorization timed out after %v", AuthTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if cb.err != nil {
		return nil, cb.err
	}

	token, err := cfg.Exchange(ctx, cb.code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}

	return &AuthResult{
		Token:     token,
		AthleteID: ExtractAthleteID(token),
	}, nil
}

// redirectHandler validates the state parameter and hands the
// authorization code (or failure) to the waiting flow.
func redirectHandler(state string, done chan<- callback) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("state") != state {
			done <- callback{err: fmt.Errorf("state mismatch in callback")}
			http.Error(w, "State mismatch", http.StatusBadRequest)
			return
		}
		if reason := q.Get("error"); reason != "" {
			done <- callback{err: fmt.Errorf("authorization denied: %s", reason)}
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			done <- callback{err: fmt.Errorf("callback carried no authorization code")}
			http.Error(w, "No authorization code", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, connectedPage)
		done <- callback{code: code}
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func closeQuietly(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
