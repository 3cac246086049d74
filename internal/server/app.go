// Package server initializes and runs the correction server: database
// connection with startup retry, migrations, service construction, and the
// HTTP endpoint with graceful shutdown.
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

	"github.com/sethvargo/go-retry"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/logging"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/oracle"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/config"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/httpapi"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/repomanager"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	oracleClient := oracle.NewChatClient(oracle.ChatConfig{
		BaseURL: cfg.OracleBaseURL,
		Model:   cfg.OracleModel,
		Timeout: cfg.OracleTimeout,
	})

	router := httpapi.NewRouter(httpapi.Services{
		Accounts:    services.NewAccountService(db, m, logger, cfg),
		Corrections: services.NewCorrectionService(db, m, oracleClient, logger),
		Moderations: services.NewModerationService(db, m),
		Documents:   services.NewDocumentService(db, m, cfg),
	}, []byte(cfg.SecretKey), logger)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

// openDB connects and pings with fibonacci backoff so the server survives a
// database that comes up a few seconds later, as happens under compose.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(time.Second))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(db.PingContext(ctx))
	}); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
