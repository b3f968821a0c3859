package handlers

import (
	"errors"
	"net/http"

	"recommread/internal/middleware"
	"recommread/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	logs *zap.SugaredLogger
	auth *services.AuthService
}

func NewAuthHandler(logger *zap.SugaredLogger, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		logs: logger,
		auth: auth,
	}
}

// Signup registers a user and logs them in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in services.SignupInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := middleware.Login(c, user.ID); err != nil {
		h.logs.Errorw("save session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in services.LoginInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := middleware.Login(c, user.ID); err != nil {
		h.logs.Errorw("save session", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout always succeeds, with or without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		h.logs.Warnw("clear session", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CurrentUser returns the session user and drops a session whose user is gone.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			if err := middleware.Logout(c); err != nil {
				h.logs.Warnw("clear dangling session", "error", err)
			}
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Status is the API liveness probe.
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"app":     "RecommRead API",
		"version": Version,
	})
}

// Version is reported by the status endpoint; overridden at link time.
var Version = "1.0.0"
