package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/forkfolio/backend/internal/types"
)

// Context keys set by the session middleware.
const (
	ContextUserID   = "user_id"
	ContextUser     = "current_user"
	ContextResource = "resource"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

// LoginPath is where browser navigation is sent when authentication is
// required.
const LoginPath = "/login.html"

// SessionValidator resolves a session token to an identity.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*types.Session, error)
}

// UserResolver loads the user behind an identity, for optional attach.
type UserResolver interface {
	ResolveUser(ctx context.Context, session *types.Session) (interface{}, error)
}

// sessionToken pulls the token from the session cookie or a Bearer header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// wantsJSON reports whether the client negotiated a structured-data response.
// Machine clients get a JSON 401; browser navigation gets a login redirect.
func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	// A Bearer token is only ever sent by a machine client.
	return strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// RequireAuth rejects requests without a live session. The originally
// requested path rides along on the login redirect so the client can return
// after signing in.
func RequireAuth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token != "" {
			if session, err := sessions.Validate(c.Request.Context(), token); err == nil {
				c.Set(ContextUserID, session.UserID)
				c.Next()
				return
			}
		}

		if wantsJSON(c) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Please log in to access this resource",
			})
			c.Abort()
			return
		}

		c.Redirect(http.StatusFound, LoginPath+"?return_to="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RequireGuest redirects already-authenticated users away from login and
// registration views.
func RequireGuest(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := sessionToken(c); token != "" {
			if _, err := sessions.Validate(c.Request.Context(), token); err == nil {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// AttachUser resolves the identity best-effort and attaches it for handlers
// that personalize responses. Resolution failures are logged and swallowed;
// the request proceeds unauthenticated.
func AttachUser(sessions SessionValidator, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(ContextUserID, session.UserID)

		if users != nil {
			user, err := users.ResolveUser(c.Request.Context(), session)
			if err != nil {
				log.Printf("failed to attach user %s: %v", session.UserID, err)
			} else {
				c.Set(ContextUser, user)
			}
		}
		c.Next()
	}
}
