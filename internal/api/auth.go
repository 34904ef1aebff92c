package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkfolio/backend/internal/middleware"
	"github.com/forkfolio/backend/internal/service"
	"github.com/forkfolio/backend/internal/types"
)

// AuthHandler handles registration, login and profile requests.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	recipes  *service.RecipeService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, recipes *service.RecipeService) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		recipes:  recipes,
	}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", middleware.RequireGuest(h.sessions), h.Register)
		auth.POST("/login", middleware.RequireGuest(h.sessions), h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/check", h.Check)
		auth.GET("/me", middleware.RequireAuth(h.sessions), h.Me)
		auth.PUT("/profile", middleware.RequireAuth(h.sessions), h.UpdateProfile)
		auth.PUT("/password", middleware.RequireAuth(h.sessions), h.ChangePassword)
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, 24*60*60, "/", "", false, true)
}

// Register creates an account and starts a session for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		failService(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		failService(c, err)
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    user,
		"token":   token,
	})
}

// Login verifies credentials and starts a session. The response carries the
// return path the session guard stashed on the login redirect, if any.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failService(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		failService(c, err)
		return
	}
	h.setSessionCookie(c, token)

	redirectURL := c.Query("return_to")
	if redirectURL == "" {
		redirectURL = "/"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Login successful",
		"user":         user,
		"token":        token,
		"redirect_url": redirectURL,
	})
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie != "" {
		if err := h.sessions.Destroy(c.Request.Context(), cookie); err != nil {
			failService(c, err)
			return
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Check reports whether the request carries a live session.
func (h *AuthHandler) Check(c *gin.Context) {
	token := ""
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		token = cookie
	}
	if token != "" {
		if session, err := h.sessions.Validate(c.Request.Context(), token); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"success":      true,
				"is_logged_in": true,
				"user_id":      session.UserID,
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_logged_in": false,
	})
}

// Me returns the current user's profile and favorite recipes.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		failService(c, err)
		return
	}

	favorites, err := h.recipes.FavoriteRecipes(c.Request.Context(), userID)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"user":      user,
		"favorites": favorites,
	})
}

// UpdateProfile replaces the current user's profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePassword verifies the current password and sets a new one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req types.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		failService(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}
