package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the OAuth2 callback server listens.
const DefaultCallbackAddr = "localhost:8080"

const loginTimeout = 5 * time.Minute

// OAuth2Config describes a browser login against a Google OAuth2 client.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// TokenFile caches the token between runs. Empty disables caching.
	TokenFile    string
	CallbackAddr string
}

func (c OAuth2Config) addr() string {
	if c.CallbackAddr == "" {
		return DefaultCallbackAddr
	}
	return c.CallbackAddr
}

// OAuthConfig returns the Sheets-scoped OAuth2 client. The callback address
// only matters for the browser login.
func OAuthConfig(clientID, clientSecret, callbackAddr string) *oauth2.Config {
	if callbackAddr == "" {
		callbackAddr = DefaultCallbackAddr
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + callbackAddr + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// callbackResult is what the browser redirect delivered.
type callbackResult struct {
	err  error
	code string
}

const callbackPage = `<html><body><h1>%s</h1><p>%s</p></body></html>`

// callbackHandler accepts a single redirect carrying the expected state.
// Forged states are rejected without consuming the login.
func callbackHandler(state string, codes chan<- string, errs chan<- error) http.Handler {
	deliver := func(res callbackResult) {
		if res.err != nil {
			select {
			case errs <- res.err:
			default:
			}
			return
		}
		select {
		case codes <- res.code:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			reason := q.Get("error")
			if reason == "" {
				reason = "no authorization code"
			}
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, callbackPage, "Maglo login failed", reason)
			deliver(callbackResult{err: fmt.Errorf("google login failed: %s", reason)})
			return
		}
		_, _ = fmt.Fprintf(w, callbackPage, "Maglo is connected", "You can close this tab.")
		deliver(callbackResult{code: code})
	})
	return mux
}

// AuthenticateOAuth2Interactive runs the browser consent flow and returns a
// token with offline access.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	client := OAuthConfig(config.ClientID, config.ClientSecret, config.addr())
	state := uuid.NewString()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	listener, err := net.Listen("tcp", config.addr())
	if err != nil {
		return nil, fmt.Errorf("listening for the login callback on %s: %w", config.addr(), err)
	}
	server := &http.Server{
		Handler:           callbackHandler(state, codes, errs),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if serveErr := server.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			select {
			case errs <- serveErr:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Debug("callback server shutdown", "error", err)
		}
	}()

	slog.Info("Open this URL to connect Google Sheets",
		"url", client.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(loginTimeout):
		return nil, fmt.Errorf("no login within %s", loginTimeout)
	}

	token, err := client.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	config.store(token)
	return token, nil
}

// LoadToken reads a cached token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &token, nil
}

// saveToken writes the token readable only by the owner.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c OAuth2Config) store(token *oauth2.Token) {
	if c.TokenFile == "" {
		return
	}
	if err := saveToken(c.TokenFile, token); err != nil {
		slog.Warn("Could not cache Google token", "file", c.TokenFile, "error", err)
		return
	}
	slog.Debug("cached Google token", "file", c.TokenFile)
}

// RefreshTokenIfNeeded exchanges an expired token for a fresh one and caches it.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}
	fresh, err := OAuthConfig(config.ClientID, config.ClientSecret, config.addr()).TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing Google token: %w", err)
	}
	config.store(fresh)
	return fresh, nil
}

// GetOrCreateToken prefers the cached token and falls back to a browser login.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		if token, err := LoadToken(config.TokenFile); err == nil {
			return RefreshTokenIfNeeded(ctx, config, token)
		}
		slog.Debug("no cached Google token", "file", config.TokenFile)
	}
	return AuthenticateOAuth2Interactive(ctx, config)
}
