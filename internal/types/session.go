package types

import "github.com/google/uuid"

// Session is an authenticated identity resolved from a session token.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID
}
