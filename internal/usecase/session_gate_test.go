package usecase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionGate_OpenResolveRevoke(t *testing.T) {
	gate := NewSessionGate("letmein")
	id := uuid.New()

	token, err := gate.Open(id, "letmein")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := gate.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)

	gate.Revoke(token)
	_, err = gate.Resolve(token)
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSessionGate_WrongSecret(t *testing.T) {
	gate := NewSessionGate("letmein")
	_, err := gate.Open(uuid.New(), "guess")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = gate.Resolve("never-issued")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestSessionGate_TokenBoundToOneCandidate(t *testing.T) {
	gate := NewSessionGate("letmein")
	a, b := uuid.New(), uuid.New()

	tokenA, err := gate.Open(a, "letmein")
	require.NoError(t, err)
	tokenB, err := gate.Open(b, "letmein")
	require.NoError(t, err)

	resolvedA, _ := gate.Resolve(tokenA)
	resolvedB, _ := gate.Resolve(tokenB)
	assert.Equal(t, a, resolvedA)
	assert.Equal(t, b, resolvedB)
	assert.NotEqual(t, tokenA, tokenB)
}
