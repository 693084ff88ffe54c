package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"ShowPulse/internal/domain/repository"
	"ShowPulse/internal/handler/api"
	"ShowPulse/internal/usecase"
	"ShowPulse/pkg/config"
	xhttp "ShowPulse/pkg/http"
	pkgkafka "ShowPulse/pkg/kafka"
	applogger "ShowPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	rebuilder *usecase.Rebuilder
	store     *usecase.SnapshotStore
	quotes    repository.QuoteSource
	archive   repository.SnapshotArchive
	publisher repository.SnapshotPublisher
	consumer  *pkgkafka.Consumer
	refresh   *usecase.RefreshHandler

	httpServer *xhttp.Server
	scheduler  *cron.Cron
}

// New creates a new App instance with all dependencies. archive, publisher,
// and consumer may be nil when the matching backend is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	rebuilder *usecase.Rebuilder,
	store *usecase.SnapshotStore,
	quotes repository.QuoteSource,
	archive repository.SnapshotArchive,
	publisher repository.SnapshotPublisher,
	consumer *pkgkafka.Consumer,
	refresh *usecase.RefreshHandler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		rebuilder: rebuilder,
		store:     store,
		quotes:    quotes,
		archive:   archive,
		publisher: publisher,
		consumer:  consumer,
		refresh:   refresh,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := api.NewAnalysisEchoHandler(a.log, a.rebuilder, a.store, a.quotes, a.archive)

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Path != "" {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	}
	a.httpServer = xhttp.NewServer(handler, opts...)

	// warm the first snapshot without delaying startup
	go func() {
		if _, err := a.rebuilder.Rebuild(ctx); err != nil {
			a.log.Warn("initial rebuild failed", applogger.Error(err))
		}
	}()

	if a.cfg.Analysis.RefreshCron != "" {
		a.scheduler = cron.New()
		_, err := a.scheduler.AddFunc(a.cfg.Analysis.RefreshCron, func() {
			if _, err := a.rebuilder.Rebuild(context.Background()); err != nil {
				a.log.Error("scheduled rebuild failed", applogger.Error(err))
			}
		})
		if err != nil {
			a.log.Error("invalid refresh cron", applogger.Error(err))
			return err
		}
		a.scheduler.Start()
		a.log.Info("scheduled rebuilds enabled", applogger.String("cron", a.cfg.Analysis.RefreshCron))
	}

	if a.consumer != nil && a.refresh != nil {
		a.consumer.RegisterHandler(a.refresh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.refresh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		stopCtx := a.scheduler.Stop()
		<-stopCtx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.log.Warn("archive close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
