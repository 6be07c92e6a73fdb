package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/llm"
)

// Manager maps session tokens to API keys held in memory.
// Keys are evicted when the session expires or the store is full.
type Manager struct {
	tokens *TokenService
	keys   *expirable.LRU[uuid.UUID, llm.Credentials]
}

// NewManager creates a manager from session settings.
func NewManager(cfg config.SessionConfig) *Manager {
	return &Manager{
		tokens: NewTokenService(cfg.Secret, cfg.TTL),
		keys:   expirable.NewLRU[uuid.UUID, llm.Credentials](cfg.MaxSessions, nil, cfg.TTL),
	}
}

// Start stores creds under a new session and returns its token.
func (m *Manager) Start(creds llm.Credentials) (string, time.Time, error) {
	if creds.Empty() {
		return "", time.Time{}, ErrEmptyKey
	}
	id := uuid.New()
	token, expiresAt, err := m.tokens.GenerateToken(id)
	if err != nil {
		return "", time.Time{}, err
	}
	m.keys.Add(id, creds)
	return token, expiresAt, nil
}

// Credentials returns the key stored for a session token.
func (m *Manager) Credentials(token string) (llm.Credentials, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return llm.Credentials{}, err
	}
	creds, ok := m.keys.Get(claims.SessionID)
	if !ok {
		return llm.Credentials{}, ErrNoSession
	}
	return creds, nil
}

// End forgets the key of a session. Unknown or invalid tokens are ignored.
func (m *Manager) End(token string) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return
	}
	m.keys.Remove(claims.SessionID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.keys.Len()
}
