package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskvault/internal/common"
	"taskvault/internal/logging"
	"taskvault/internal/server/models"
	"taskvault/internal/server/services"
)

// AuthProvider is the slice of AuthService the handlers need.
type AuthProvider interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, rawRefresh string) (*services.TokenPair, error)
	Logout(ctx context.Context, rawRefresh string) error
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	svc        AuthProvider
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
	log        logging.Logger
}

func NewAuthHandler(svc AuthProvider, accessTTL, refreshTTL time.Duration, secure bool, log logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, accessTTL: accessTTL, refreshTTL: refreshTTL, secure: secure, log: log}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidEmail), errors.Is(err, common.ErrorPasswordTooShort):
			respondError(c, http.StatusBadRequest, err.Error(), codeValidation)
		case errors.Is(err, common.ErrorConflict):
			respondError(c, http.StatusConflict, "Email already registered", codeConflict)
		default:
			h.log.Error(c.Request.Context(), "register failed", "error", err)
			respondError(c, http.StatusInternalServerError, "Internal server error", codeInternal)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", codeValidation)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// Unknown email and wrong password share one answer.
			respondError(c, http.StatusUnauthorized, "Invalid credentials", codeUnauthorized)
			return
		}
		h.log.Error(c.Request.Context(), "login failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", codeInternal)
		return
	}

	setSessionCookies(c, pair, h.accessTTL, h.refreshTTL, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(refreshCookieName)
	if err != nil || raw == "" {
		respondError(c, http.StatusUnauthorized, "Refresh token missing", codeUnauthorized)
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// Cookies stay untouched on failure: a replayed token is already
			// revoked server-side, and the winner's cookies must stand.
			respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token", codeUnauthorized)
			return
		}
		h.log.Error(c.Request.Context(), "refresh failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", codeInternal)
		return
	}

	setSessionCookies(c, pair, h.accessTTL, h.refreshTTL, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed"})
}

// Logout always succeeds from the client's point of view, cookie or not.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(refreshCookieName); err == nil && raw != "" {
		if err := h.svc.Logout(c.Request.Context(), raw); err != nil {
			h.log.Warn(c.Request.Context(), "logout revocation failed", "error", err)
		}
	}

	clearSessionCookies(c, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user, as loaded by AuthRequired.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(currentUser(c))})
}
