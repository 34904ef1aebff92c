package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/forkfolio/backend/internal/types"
)

const sessionKeyPrefix = "session:"

// SessionService issues and validates server-side sessions. The session row
// lives in Redis under a random session id; the token handed to the client is
// an HS256 JWT wrapping that id, so a signature check alone is never enough —
// the Redis row must still be live. Deleting the row revokes the session.
type SessionService struct {
	redis     *redis.Client
	jwtSecret string
	ttl       time.Duration
}

// NewSessionService creates a new SessionService instance
func NewSessionService(redisClient *redis.Client, jwtSecret string) *SessionService {
	return &SessionService{
		redis:     redisClient,
		jwtSecret: jwtSecret,
		ttl:       24 * time.Hour,
	}
}

// Create starts a session for the given user and returns the signed token.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	sessionID := uuid.New()

	if err := s.redis.Set(ctx, sessionKeyPrefix+sessionID.String(), userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid":     sessionID.String(),
		"user_id": userID.String(),
		"exp":     time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		// Don't leave an unreachable session row behind.
		s.redis.Del(ctx, sessionKeyPrefix+sessionID.String())
		return "", err
	}
	return signed, nil
}

// Validate resolves a token to the session it represents. It fails if the
// signature is invalid, the token expired, or the Redis row is gone.
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*types.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}

	sidStr, ok := claims["sid"].(string)
	if !ok {
		return nil, errors.New("invalid session token claims")
	}
	sessionID, err := uuid.Parse(sidStr)
	if err != nil {
		return nil, err
	}

	userIDStr, err := s.redis.Get(ctx, sessionKeyPrefix+sessionID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	return &types.Session{
		ID:     sessionID,
		UserID: userID,
	}, nil
}

// Destroy revokes the session behind the given token. Revoking an already
// dead session is not an error.
func (s *SessionService) Destroy(ctx context.Context, tokenString string) error {
	sess, err := s.Validate(ctx, tokenString)
	if err != nil {
		return nil
	}
	return s.redis.Del(ctx, sessionKeyPrefix+sess.ID.String()).Err()
}
