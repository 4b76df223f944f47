// Package server initializes and runs the backend: it opens the database,
// applies migrations, wires the services, and serves the REST API with
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/teaisforme/teataster/internal/logging"
	"github.com/teaisforme/teataster/internal/server/api"
	"github.com/teaisforme/teataster/internal/server/config"
	"github.com/teaisforme/teataster/internal/server/migrations"
	"github.com/teaisforme/teataster/internal/server/repositories/categories"
	"github.com/teaisforme/teataster/internal/server/repositories/notes"
	"github.com/teaisforme/teataster/internal/server/repositories/users"
	"github.com/teaisforme/teataster/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *api.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	userService := services.NewUserService(
		users.NewPostgresRepository(db), c.SecretKey, c.TokenValidityDuration)
	noteService := services.NewNoteService(
		notes.NewPostgresRepository(db), categories.NewPostgresRepository(db))

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		handler: api.NewHandler(userService, noteService, logger),
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

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler.Router(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}
	app.logger.Info(shutdownCtx, "server stopped")
}
