// Package server wires the catalog pipeline behind the HTTP API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/launchdeck/backend/internal/api/http"
	"github.com/launchdeck/backend/internal/api/middleware"
	"github.com/launchdeck/backend/internal/bundle"
	"github.com/launchdeck/backend/internal/catalog"
	"github.com/launchdeck/backend/internal/discovery"
	"github.com/launchdeck/backend/internal/executor"
	"github.com/launchdeck/backend/internal/icon"
	"github.com/launchdeck/backend/internal/infrastructure/config"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/infrastructure/monitoring"
	"github.com/launchdeck/backend/internal/toolrun"
)

// Server wraps the HTTP server and the catalog pipeline.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	catalog *catalog.Catalog
	logger  *logging.Logger
	config  *config.Config

	quitOnce sync.Once
	quit     chan struct{}
}

// New creates a server from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing LaunchDeck backend",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	metrics := monitoring.NewMetrics()

	runner := toolrun.New(time.Duration(cfg.Tools.TimeoutSeconds) * time.Second).
		WithObserver(metrics)
	reader := bundle.NewReader(runner)
	icons := icon.NewExtractor(runner, reader, icon.NewQuickLookResolver(runner))

	apps := discovery.NewApps(icons, logger)
	settings := discovery.NewSettings(reader, icons, logger)

	dirs, err := config.LoadDirs(cfg.Catalog.DirsFile)
	if err != nil {
		return nil, err
	}
	if len(dirs.Applications) > 0 {
		apps = apps.WithDirs(dirs.Applications)
	}
	if len(dirs.Extensions) > 0 || len(dirs.PrefPanes) > 0 {
		settings = settings.WithDirs(dirs.Extensions, dirs.PrefPanes)
	}
	if len(dirs.SettingsApps) > 0 {
		settings = settings.WithSettingsApps(dirs.SettingsApps)
	}

	cat := catalog.New(apps, settings, logger).
		WithMetrics(metrics).
		WithTTL(time.Duration(cfg.Catalog.TTLSeconds) * time.Second)

	srv := &Server{
		catalog: cat,
		logger:  logger,
		config:  cfg,
		quit:    make(chan struct{}),
	}

	exec := executor.New(cat, executor.NewExecOpener(runner), logger).
		WithMetrics(metrics).
		WithShutdown(srv.RequestQuit)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	apihttp.NewHandlers(cat, exec, logger).Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv.router = router
	srv.http = &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}
	return srv, nil
}

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	err := s.http.Shutdown(ctx)
	s.logger.Sync()
	return err
}

// RequestQuit signals that the built-in quit command ran. The hosting
// process observes Done and exits through its normal shutdown path.
func (s *Server) RequestQuit() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Done is closed once the quit command has been executed.
func (s *Server) Done() <-chan struct{} {
	return s.quit
}
