// Package auth owns the Google OAuth2 credential lifecycle: the
// interactive loopback login handshake, access-token caching with silent
// refresh, and logout with best-effort remote revocation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"ytliked/storage"
)

// Google OAuth2 endpoints. Overridable through options for testing.
const (
	DefaultAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL  = "https://oauth2.googleapis.com/token"
	DefaultRevokeURL = "https://oauth2.googleapis.com/revoke"

	// DefaultCallbackPort is the fixed loopback port the redirect
	// listener binds. It must match the redirect URI registered with the
	// OAuth client.
	DefaultCallbackPort = 42813
)

// Scopes requested during login: read access to the liked-video list and
// the force-ssl scope needed by the rating (unlike) endpoint.
var Scopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// TokenManager maintains exactly one Credential and mediates all bearer
// token use. Every authorized request must obtain its token through
// ValidAccessToken so that expired tokens never leak into requests.
type TokenManager struct {
	store      *storage.Store
	cfg        *oauth2.Config
	httpClient *http.Client
	revokeURL  string
	port       int
	now        func() time.Time
	openURL    func(string) error
	onLogin    func(error)

	// refreshMu serializes credential reads against refresh writes.
	refreshMu sync.Mutex

	// loginMu guards the redirect listener lifecycle.
	loginMu sync.Mutex
	srv     *http.Server
	authURL string
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithHTTPClient sets the HTTP client used for token exchange, refresh
// and revocation requests.
func WithHTTPClient(client *http.Client) Option {
	return func(tm *TokenManager) { tm.httpClient = client }
}

// WithEndpoints overrides the authorization and token endpoints.
func WithEndpoints(authURL, tokenURL string) Option {
	return func(tm *TokenManager) {
		tm.cfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	}
}

// WithRevokeURL overrides the revocation endpoint.
func WithRevokeURL(revokeURL string) Option {
	return func(tm *TokenManager) { tm.revokeURL = revokeURL }
}

// WithCallbackPort overrides the loopback port for the redirect listener.
func WithCallbackPort(port int) Option {
	return func(tm *TokenManager) { tm.port = port }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(tm *TokenManager) { tm.now = now }
}

// WithBrowserOpener overrides how the authorization URL is opened.
func WithBrowserOpener(open func(string) error) Option {
	return func(tm *TokenManager) { tm.openURL = open }
}

// WithLoginCallback registers the function invoked when an in-flight
// login handshake completes. It receives nil on success. Login itself
// returns before the browser flow finishes.
func WithLoginCallback(fn func(error)) Option {
	return func(tm *TokenManager) { tm.onLogin = fn }
}

// NewTokenManager creates a TokenManager persisting through store.
func NewTokenManager(store *storage.Store, clientID, clientSecret string, opts ...Option) *TokenManager {
	tm := &TokenManager{
		store: store,
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: DefaultAuthURL, TokenURL: DefaultTokenURL},
			Scopes:       Scopes,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		revokeURL:  DefaultRevokeURL,
		port:       DefaultCallbackPort,
		now:        time.Now,
		openURL:    OpenBrowser,
	}
	for _, opt := range opts {
		opt(tm)
	}
	tm.cfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/callback", tm.port)
	return tm
}

// Login starts the interactive authorization handshake. It clears any
// stale credential, binds the loopback redirect listener, and opens the
// authorization URL in the system browser. The call returns once the flow
// is underway; completion is reported through the login callback when the
// redirect arrives. Calling Login while a listener is already active only
// re-opens the authorization URL.
func (tm *TokenManager) Login(ctx context.Context) error {
	tm.loginMu.Lock()
	defer tm.loginMu.Unlock()

	if tm.srv != nil {
		if err := tm.openURL(tm.authURL); err != nil {
			return &AuthError{Op: "login", Err: fmt.Errorf("%w: %v", ErrNotDesktop, err)}
		}
		return nil
	}

	// A login invalidates whatever grant was stored before.
	if err := tm.store.ClearCredential(); err != nil {
		return &AuthError{Op: "login", Err: err}
	}

	state := uuid.NewString()
	authURL := tm.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", tm.port))
	if err != nil {
		return &AuthError{Op: "login", Err: fmt.Errorf("%w: %v", ErrNotDesktop, err)}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		tm.handleCallback(w, r, state)
	})
	srv := &http.Server{Handler: mux}
	tm.srv = srv
	tm.authURL = authURL

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("ytliked: redirect listener: %v", err)
		}
	}()

	if err := tm.openURL(authURL); err != nil {
		tm.shutdownListenerLocked()
		return &AuthError{Op: "login", Err: fmt.Errorf("%w: %v", ErrNotDesktop, err)}
	}

	return nil
}

// handleCallback processes the redirect hit the listener exists for: it
// validates the state, exchanges the authorization code, persists the
// credential, answers the browser, and tears the listener down. A hit
// carrying the wrong state is answered with 400 and otherwise ignored,
// so a stray local request cannot kill a pending login.
func (tm *TokenManager) handleCallback(w http.ResponseWriter, r *http.Request, wantState string) {
	err := tm.completeLogin(r, wantState)
	if errors.Is(err, ErrStateMismatch) {
		http.Error(w, "Authentication failed. Please return to your notes and try again.", http.StatusBadRequest)
		log.Printf("ytliked: ignoring callback with unexpected state")
		return
	}
	if err != nil {
		http.Error(w, "Authentication failed. Please return to your notes and try again.", http.StatusBadRequest)
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "Authentication successful! Please return to your notes.")
	}

	tm.loginMu.Lock()
	tm.shutdownListenerLocked()
	tm.loginMu.Unlock()

	if tm.onLogin != nil {
		tm.onLogin(err)
	}

	if err != nil {
		log.Printf("ytliked: login failed: %v", err)
	} else {
		log.Printf("ytliked: tokens acquired")
	}
}

func (tm *TokenManager) completeLogin(r *http.Request, wantState string) error {
	query := r.URL.Query()
	if query.Get("state") != wantState {
		return &AuthError{Op: "login", Err: ErrStateMismatch}
	}
	code := query.Get("code")
	if code == "" {
		return &AuthError{Op: "login", Err: fmt.Errorf("callback missing code parameter")}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, tm.httpClient)
	tok, err := tm.cfg.Exchange(ctx, code)
	if err != nil {
		return &AuthError{Op: "exchange", Err: err}
	}

	cred := storage.Credential{
		AccessToken:     tok.AccessToken,
		RefreshToken:    tok.RefreshToken,
		ExpiresAtMillis: tok.Expiry.UnixMilli(),
	}
	if err := tm.store.SetCredential(cred); err != nil {
		return &AuthError{Op: "exchange", Err: err}
	}
	return nil
}

// shutdownListenerLocked stops the redirect listener. Caller holds loginMu.
func (tm *TokenManager) shutdownListenerLocked() {
	if tm.srv == nil {
		return
	}
	srv := tm.srv
	tm.srv = nil
	tm.authURL = ""
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()
}

// LoginPending reports whether a redirect listener is currently active.
func (tm *TokenManager) LoginPending() bool {
	tm.loginMu.Lock()
	defer tm.loginMu.Unlock()
	return tm.srv != nil
}

// ValidAccessToken returns an access token that is guaranteed unexpired
// at the time of the call. While the cached token is still valid it is
// returned with no network traffic; otherwise a refresh-token exchange is
// performed and the new token persisted. Without a refresh token this
// fails with ErrNoRefreshToken wrapped in an AuthError. A failed refresh
// leaves the stored (stale) access token in place so a transient network
// error never forces a re-login.
func (tm *TokenManager) ValidAccessToken(ctx context.Context) (string, error) {
	tm.refreshMu.Lock()
	defer tm.refreshMu.Unlock()

	cred, err := tm.store.Credential()
	if err != nil {
		return "", &AuthError{Op: "token", Err: err}
	}

	if cred.AccessTokenValid(tm.now()) {
		return cred.AccessToken, nil
	}

	if !cred.HasRefreshToken() {
		return "", &AuthError{Op: "token", Err: ErrNoRefreshToken}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, tm.httpClient)
	tok, err := tm.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return "", &AuthError{Op: "refresh", Err: err}
	}

	if tok.RefreshToken != "" && tok.RefreshToken != cred.RefreshToken {
		// Google occasionally rotates the refresh token on refresh.
		err = tm.store.SetCredential(storage.Credential{
			AccessToken:     tok.AccessToken,
			RefreshToken:    tok.RefreshToken,
			ExpiresAtMillis: tok.Expiry.UnixMilli(),
		})
	} else {
		err = tm.store.SetAccessToken(tok.AccessToken, tok.Expiry.UnixMilli())
	}
	if err != nil {
		return "", &AuthError{Op: "refresh", Err: err}
	}

	return tok.AccessToken, nil
}

// Logout revokes the current access token remotely (best effort) and
// unconditionally clears the stored credential and the cached liked-video
// list. The return value reports only whether remote revocation
// succeeded; local state is cleared either way.
func (tm *TokenManager) Logout(ctx context.Context) bool {
	revoked := false

	cred, err := tm.store.Credential()
	if err == nil && cred.AccessToken != "" {
		revokeURL := tm.revokeURL + "?token=" + url.QueryEscape(cred.AccessToken)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, nil)
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if resp, err := tm.httpClient.Do(req); err == nil {
				resp.Body.Close()
				revoked = resp.StatusCode == http.StatusOK
			}
		}
	}
	if !revoked {
		log.Printf("ytliked: remote token revocation failed; clearing local state anyway")
	}

	if err := tm.store.ClearCredential(); err != nil {
		log.Printf("ytliked: clear credential: %v", err)
	}
	if err := tm.store.ClearLikedVideos(); err != nil {
		log.Printf("ytliked: clear liked videos: %v", err)
	}

	return revoked
}

// State returns the current credential lifecycle state.
func (tm *TokenManager) State() (storage.CredentialState, error) {
	cred, err := tm.store.Credential()
	if err != nil {
		return "", &AuthError{Op: "token", Err: err}
	}
	return cred.State(tm.now()), nil
}

// TokenSource adapts the manager to oauth2.TokenSource so API clients
// route every request through ValidAccessToken.
func (tm *TokenManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managedSource{tm: tm, ctx: ctx}
}

type managedSource struct {
	tm  *TokenManager
	ctx context.Context
}

// Token returns a currently valid bearer token, refreshing if needed.
func (s *managedSource) Token() (*oauth2.Token, error) {
	access, err := s.tm.ValidAccessToken(s.ctx)
	if err != nil {
		return nil, err
	}
	cred, err := s.tm.store.Credential()
	if err != nil {
		return nil, &AuthError{Op: "token", Err: err}
	}
	return &oauth2.Token{
		AccessToken: access,
		TokenType:   "Bearer",
		Expiry:      time.UnixMilli(cred.ExpiresAtMillis),
	}, nil
}
