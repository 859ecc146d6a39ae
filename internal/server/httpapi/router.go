package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskvault/internal/logging"
)

// RouterDeps bundles everything the route tree needs.
type RouterDeps struct {
	Auth         AuthProvider
	Users        UserResolver
	Tasks        TaskProvider
	Parser       AccessParser
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	Secure       bool
	ClientOrigin string
	Log          logging.Logger
}

// NewRouter builds the full route tree with middleware attached.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(deps.Log), Recovery(deps.Log), CORS(deps.ClientOrigin))

	authHandler := NewAuthHandler(deps.Auth, deps.AccessTTL, deps.RefreshTTL, deps.Secure, deps.Log)
	taskHandler := NewTaskHandler(deps.Tasks, deps.Log)
	requireAuth := AuthRequired(deps.Parser, deps.Users)

	api := r.Group("/api")
	api.GET("/health", Health)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", requireAuth, authHandler.Me)

	tasks := api.Group("/tasks", requireAuth)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return r
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
