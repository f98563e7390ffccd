package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for credential lifecycle operations.
var (
	// ErrNoRefreshToken indicates no refresh token is stored; the user
	// must run the interactive login flow before any API call can be
	// authorized.
	ErrNoRefreshToken = errors.New("auth: no refresh token stored")
	// ErrNotDesktop indicates the environment cannot open a local HTTP
	// listener or a browser, which the login handshake requires.
	ErrNotDesktop = errors.New("auth: desktop environment required")
	// ErrStateMismatch indicates the redirect callback carried an
	// unexpected OAuth state parameter.
	ErrStateMismatch = errors.New("auth: state parameter mismatch")
)

// AuthError wraps credential lifecycle errors with operation context.
// Use errors.As() to extract this error type and get operation details:
//
//	var authErr *auth.AuthError
//	if errors.As(err, &authErr) {
//		fmt.Printf("Failed to %s: %v\n", authErr.Op, authErr.Err)
//	}
type AuthError struct {
	// Op is the operation that failed ("login", "exchange", "refresh", "token").
	Op string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the auth error.
func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *AuthError) Unwrap() error { return e.Err }
