package service

import (
	"sync"

	"github.com/google/uuid"
)

// ============================================================
// Editor Sessions
// ============================================================

// AnonymousEditor is reported for requests without a known token.
const AnonymousEditor = "anonymous"

// SessionManager hands out bearer tokens that name the editor driving a change.
type SessionManager struct {
	mu     sync.Mutex
	tokens map[string]string // token -> editor name
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		tokens: make(map[string]string),
	}
}

func (m *SessionManager) Issue(editor string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	m.tokens[token] = editor
	return token
}

func (m *SessionManager) Resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	editor, ok := m.tokens[token]
	return editor, ok
}

// Revoke forgets a token. Unknown tokens are ignored.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, token)
}
