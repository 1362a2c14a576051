package usecase

import (
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBadCredentials is returned for a wrong shared secret or unknown token.
var ErrBadCredentials = errors.New("invalid session credentials")

// SessionGate exchanges a candidate id plus the shared static secret for a
// session token. The token only proves identity for that one candidate id.
// This preserves the legacy access behavior; it is not a security boundary.
type SessionGate struct {
	secret string

	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func NewSessionGate(secret string) *SessionGate {
	return &SessionGate{secret: secret, tokens: make(map[string]uuid.UUID)}
}

// Open validates the shared secret and issues a token bound to the candidate.
func (g *SessionGate) Open(candidateID uuid.UUID, secret string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(g.secret)) != 1 {
		return "", ErrBadCredentials
	}
	token := uuid.NewString()
	g.mu.Lock()
	g.tokens[token] = candidateID
	g.mu.Unlock()
	return token, nil
}

// Resolve returns the candidate a token was issued for.
func (g *SessionGate) Resolve(token string) (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.tokens[token]
	if !ok {
		return uuid.Nil, ErrBadCredentials
	}
	return id, nil
}

// Revoke drops a token, ending the session.
func (g *SessionGate) Revoke(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}
