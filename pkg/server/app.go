package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"RatePull/internal/handler/api"
	"RatePull/internal/usecase"
	"RatePull/pkg/cache"
	pkgch "RatePull/pkg/clickhouse"
	"RatePull/pkg/config"
	xhttp "RatePull/pkg/http"
	"RatePull/pkg/http/middleware"
	pkgkafka "RatePull/pkg/kafka"
	applogger "RatePull/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, live price
// collector, and the infrastructure clients that need closing on shutdown.
type App struct {
	cfg        *config.Config
	handler    *api.RatingEchoHandler
	collector  *usecase.PriceCollector
	cache      cache.Service
	producer   *pkgkafka.Producer
	chClient   *pkgch.Client
	l          *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handler *api.RatingEchoHandler,
	collector *usecase.PriceCollector,
	cacheSvc cache.Service,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	l *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		handler:   handler,
		collector: collector,
		cache:     cacheSvc,
		producer:  producer,
		chClient:  chClient,
		l:         l,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(middleware.CORSConfig{
			AllowOrigins:  a.cfg.CORS.AllowedOrigins,
			DefaultOrigin: a.cfg.CORS.DefaultOrigin,
		}),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled),
	)

	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			a.l.Error("price collector start error", applogger.Error(err))
		} else {
			a.l.Info("price collector started", applogger.Strings("symbols", a.cfg.Finnhub.Symbols))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Stop(); err != nil {
			a.l.Warn("price collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
