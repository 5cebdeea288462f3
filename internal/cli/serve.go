package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/backend"
	"mlserve/internal/config"
	"mlserve/internal/httpapi"
	"mlserve/internal/inference"
	"mlserve/internal/logging"
	"mlserve/internal/manager"
)

const shutdownTimeout = 5 * time.Second

// newManager builds the prediction facade for the configured deployment.
func newManager(cfg config.Config, logger zerolog.Logger, pub manager.EventPublisher) (*manager.Manager, error) {
	id, err := cfg.LoaderIdentity()
	if err != nil {
		return nil, err
	}
	task, err := cfg.TaskKind()
	if err != nil {
		return nil, err
	}
	path, err := cfg.ModelPath()
	if err != nil {
		return nil, err
	}
	loader, err := backend.ForIdentity(id, backendOptions(cfg))
	if err != nil {
		return nil, err
	}
	return manager.NewWithConfig(manager.ManagerConfig{
		ModelPath:  path,
		Loaders:    []inference.Loader{loader},
		Loader:     id,
		Task:       task,
		Runner:     cfg.RunnerConfig(),
		LabelsFile: cfg.LabelsFile,
		Logger:     &logger,
		Publisher:  pub,
	}), nil
}

func configureHTTP(cfg config.Config, logger zerolog.Logger) {
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestTimeoutSeconds(cfg.RequestTimeoutSeconds)
	httpapi.SetTestInput(cfg.InputExample)
	httpapi.SetAllowPrivateImageURLs(cfg.AllowPrivateImageURLs)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)
}

// runServe starts the HTTP API and blocks until SIGINT/SIGTERM or a listener
// failure, then shuts down gracefully.
func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	configureHTTP(cfg, logger)
	mgr, err := newManager(cfg, logger, httpapi.MetricsPublisher{})
	if err != nil {
		return err
	}
	if cfg.Preload {
		// /readyz stays 503 and requests retry the load on the next call.
		if err := mgr.Preload(); err != nil {
			logger.Error().Err(err).Msg("preload failed")
		}
	}

	baseCtx, cancelBase := context.WithCancel(ctx)
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("loader", cfg.Loader).Str("task", cfg.Task).Msg("mlserve listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	logger.Info().Msg("mlserve stopped")
	return nil
}
