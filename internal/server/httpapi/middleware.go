package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault/internal/common"
	"taskvault/internal/logging"
	"taskvault/internal/server/models"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	currentUserKey  = "current_user"
)

// AccessParser verifies an access token and returns its subject.
// Satisfied by *auth.TokenManager.
type AccessParser interface {
	ParseAccess(token string) (string, error)
}

// UserResolver loads the account behind a verified token subject.
// Satisfied by *services.AuthService.
type UserResolver interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// RequestID reuses an incoming X-Request-Id or generates one, and echoes it
// on the response so clients and logs can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			requestIDKey, c.GetString(requestIDKey),
		)
	}
}

// Recovery converts panics into a 500 with the uniform envelope instead of
// a dropped connection.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "panic recovered",
					"panic", r,
					"path", c.Request.URL.Path,
					requestIDKey, c.GetString(requestIDKey),
				)
				respondError(c, http.StatusInternalServerError, "Internal server error", codeInternal)
			}
		}()
		c.Next()
	}
}

// CORS allows the single configured browser origin with credentials, which
// the cookie-based session requires.
func CORS(origin string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// AuthRequired gates a route group on a valid access token cookie and loads
// the current user into the context.
func AuthRequired(parser AccessParser, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(accessCookieName)
		if err != nil || raw == "" {
			respondError(c, http.StatusUnauthorized, "Access token missing", codeUnauthorized)
			return
		}

		userID, err := parser.ParseAccess(raw)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid or expired access token", codeUnauthorized)
			return
		}

		user, err := users.UserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				respondError(c, http.StatusUnauthorized, "User not found", codeUnauthorized)
				return
			}
			respondError(c, http.StatusInternalServerError, "Internal server error", codeInternal)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by AuthRequired.
func currentUser(c *gin.Context) *models.User {
	u, _ := c.Get(currentUserKey)
	user, _ := u.(*models.User)
	return user
}
