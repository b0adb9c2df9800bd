package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fuselink/backend/internal/auth"
	"github.com/fuselink/backend/internal/models"
	"github.com/fuselink/backend/internal/util"
	"github.com/gin-gonic/gin"
)

// Register creates a new account and returns tokens plus the user
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid registration payload")
		return
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			util.RespondConflict(c, "email is already registered")
		case errors.Is(err, auth.ErrUsernameExists):
			util.RespondConflict(c, "username is already taken")
		default:
			util.RespondInternalError(c, "failed to create account")
		}
		return
	}

	util.RespondData(c, http.StatusCreated, resp)
}

// Login authenticates credentials and returns tokens plus the user
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "", "invalid login payload")
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "invalid email or password")
			return
		}
		util.RespondInternalError(c, "failed to log in")
		return
	}

	util.RespondData(c, http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a fresh token pair
func (h *Handlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondValidationError(c, "refresh_token", "refresh_token is required")
		return
	}

	resp, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		util.RespondUnauthorized(c, "invalid refresh token")
		return
	}

	util.RespondData(c, http.StatusOK, resp)
}

// AuthMiddleware validates the Bearer token and loads the user into the
// request context. Requests without a valid token are rejected.
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.userFromRequest(c)
		if err != nil {
			util.RespondUnauthorized(c, "invalid or missing token")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuthMiddleware loads the user when a valid Bearer token is present
// and stays silent otherwise. Handlers behind it serve both audiences.
func (h *Handlers) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := h.userFromRequest(c); err == nil {
			c.Set("user_id", user.ID)
			c.Set("user", user)
		}
		c.Next()
	}
}

func (h *Handlers) userFromRequest(c *gin.Context) (*models.User, error) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, auth.ErrInvalidToken
	}
	return h.auth.ValidateToken(token)
}
