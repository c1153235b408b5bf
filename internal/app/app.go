package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"StartupPredictor/internal/config"
	"StartupPredictor/internal/infrastructure/export"
	"StartupPredictor/internal/infrastructure/ml"
	"StartupPredictor/internal/infrastructure/scheduler"
	"StartupPredictor/internal/infrastructure/storage"
	"StartupPredictor/internal/logging"
	"StartupPredictor/internal/usecase"
	"StartupPredictor/internal/web"
)

const (
	readHeaderTimeout      = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	client    *ml.Client
	service   *usecase.Service
	exporters *export.Registry
	retention *usecase.Retention
	db        *sqlx.DB
}

// New builds the application. History storage is opened and migrated only
// when a DSN is configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	client := ml.NewClient(cfg.API.Origin(cfg.Server.PublicHost), ml.WithTimeout(cfg.API.Timeout))

	a := &Application{
		cfg:       cfg,
		logger:    baseLogger,
		client:    client,
		exporters: export.DefaultRegistry(),
	}

	deps := usecase.ServiceDeps{
		Predictor:  client,
		Logger:     baseLogger.With("component", "service"),
		SessionTTL: cfg.Server.SessionTTL,
	}

	if cfg.History.DSN != "" {
		db, err := storage.Open(ctx, cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		repo := storage.NewHistoryRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate history: %w", err)
		}
		a.db = db
		deps.History = repo
		a.retention = usecase.NewRetention(
			scheduler.NewTicker(cfg.History.PruneInterval),
			repo,
			cfg.History.Retention,
			baseLogger.With("component", "retention"),
		)
	}

	a.service = usecase.NewService(deps)
	return a, nil
}

// Service exposes the submission use case for command-line flows.
func (a *Application) Service() *usecase.Service {
	return a.service
}

// Exporters lists the registered batch exporters.
func (a *Application) Exporters() *export.Registry {
	return a.exporters
}

// PredictionOrigin is the prediction service URL in use.
func (a *Application) PredictionOrigin() string {
	return a.client.BaseURL()
}

// Handler builds the web UI handler.
func (a *Application) Handler() (http.Handler, error) {
	srv, err := web.NewServer(a.service, a.exporters, a.logger.With("component", "web"), web.Options{
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
		HistoryLimit:   a.cfg.History.Limit,
	})
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

// Run serves the web UI until ctx is cancelled, then drains connections.
func (a *Application) Run(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.retention != nil {
		if err := a.retention.Start(gctx); err != nil {
			return fmt.Errorf("start retention: %w", err)
		}
	}

	g.Go(func() error {
		a.logger.Info("listening", "addr", httpSrv.Addr, "prediction_api", a.client.BaseURL())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeout := a.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if a.retention != nil {
			if err := a.retention.Stop(shutdownCtx); err != nil {
				a.logger.Warn("stop retention", "error", err)
			}
		}
		a.logger.Info("shutting down")
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the history database.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
