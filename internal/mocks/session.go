package mocks

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/forkfolio/backend/internal/types"
)

// ErrUnknownToken is returned by SessionStore for tokens it has not issued.
var ErrUnknownToken = errors.New("unknown session token")

// SessionStore is an in-memory SessionValidator for handler tests. Issue
// hands out opaque tokens; Revoke simulates logout.
type SessionStore struct {
	sessions map[string]*types.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*types.Session)}
}

// Issue registers a session for userID and returns its token.
func (s *SessionStore) Issue(userID uuid.UUID) string {
	token := uuid.NewString()
	s.sessions[token] = &types.Session{
		ID:     uuid.New(),
		UserID: userID,
	}
	return token
}

// Revoke forgets a previously issued token.
func (s *SessionStore) Revoke(token string) {
	delete(s.sessions, token)
}

// Validate resolves a token to its session.
func (s *SessionStore) Validate(ctx context.Context, token string) (*types.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return session, nil
}
