// Package server initializes and runs the TaskVault server: configuration,
// database pool and migrations, crypto material, services, and the HTTP
// endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"taskvault/internal/cryptox"
	"taskvault/internal/logging"
	"taskvault/internal/server/auth"
	"taskvault/internal/server/config"
	"taskvault/internal/server/httpapi"
	"taskvault/internal/server/repositories/repomanager"
	"taskvault/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
	taskService *services.TaskService
	tokens      *auth.TokenManager
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cipher, err := cryptox.NewFieldCipher(cfg.FieldEncKey)
	if err != nil {
		return nil, fmt.Errorf("field encryption key error: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret,
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		authService: services.NewAuthService(db, rm, tokens),
		taskService: services.NewTaskService(db, rm, cipher),
		tokens:      tokens,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:         app.authService,
		Users:        app.authService,
		Tasks:        app.taskService,
		Parser:       app.tokens,
		AccessTTL:    app.config.AccessTokenValidityDuration,
		RefreshTTL:   app.config.RefreshTokenValidityDuration,
		Secure:       app.config.Production(),
		ClientOrigin: app.config.ClientOrigin,
		Log:          app.logger,
	})

	s := httpapi.NewServer(app.config.EndpointAddr, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
