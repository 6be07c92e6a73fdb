// Package middleware provides HTTP middleware for session credentials.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jonathan/takeaways/internal/llm"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const credentialsKey ContextKey = "credentials"

// CredentialResolver looks up the API key behind a session token.
type CredentialResolver interface {
	Credentials(token string) (llm.Credentials, error)
}

// Sessions attaches the session's API key to the request context. The token
// comes from the named cookie or an Authorization Bearer header. Requests
// without a usable session pass through unchanged; handlers decide whether a
// key is required.
func Sessions(resolver CredentialResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			creds, err := resolver.Credentials(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), credentialsKey, creds)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Token extracts the session token from the request.
func Token(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// Credentials returns the session's API key, if the request carried one.
func Credentials(r *http.Request) (llm.Credentials, bool) {
	creds, ok := r.Context().Value(credentialsKey).(llm.Credentials)
	return creds, ok
}

// WithCredentials returns a copy of ctx carrying creds, for tests and internal callers.
func WithCredentials(ctx context.Context, creds llm.Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey, creds)
}
