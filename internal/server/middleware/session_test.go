package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/takeaways/internal/llm"
)

type staticResolver map[string]string

func (s staticResolver) Credentials(token string) (llm.Credentials, error) {
	key, ok := s[token]
	if !ok {
		return llm.Credentials{}, errors.New("invalid token")
	}
	return llm.Credentials{APIKey: key}, nil
}

const cookieName = "test_session"

func run(t *testing.T, req *http.Request) (llm.Credentials, bool) {
	t.Helper()
	var (
		got   llm.Credentials
		found bool
	)
	handler := Sessions(staticResolver{"good": "sk-abc"}, cookieName)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, found = Credentials(r)
			w.WriteHeader(http.StatusOK)
		}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "requests always reach the handler")
	return got, found
}

func TestSessions_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "good"})

	creds, ok := run(t, req)
	assert.True(t, ok)
	assert.Equal(t, "sk-abc", creds.APIKey)
}

func TestSessions_BearerHeader(t *testing.T) {
	tests := []string{"Bearer good", "bearer good", "BEARER  good"}
	for _, header := range tests {
		t.Run(header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate", nil)
			req.Header.Set("Authorization", header)

			creds, ok := run(t, req)
			assert.True(t, ok)
			assert.Equal(t, "sk-abc", creds.APIKey)
		})
	}
}

func TestSessions_NoUsableToken(t *testing.T) {
	tests := map[string]func(*http.Request){
		"none":          func(*http.Request) {},
		"unknown token": func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
		"basic auth":    func(r *http.Request) { r.Header.Set("Authorization", "Basic good") },
		"empty cookie":  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookieName, Value: ""}) },
	}
	for name, prepare := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/generate", nil)
			prepare(req)

			_, ok := run(t, req)
			assert.False(t, ok)
		})
	}
}
