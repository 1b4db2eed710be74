// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the Xena hub client and its metrics
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/xenaviz/internal/config"
	loggerPkg "github.com/deppfellow/xenaviz/internal/logger"
	"github.com/deppfellow/xenaviz/internal/metrics"
	"github.com/deppfellow/xenaviz/internal/xena"
)

// Server is the application container that holds shared resources.
// It is not the HTTP server itself.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService holds the New Relic application, nil inside when disabled.
	LoggerService *loggerPkg.LoggerService

	// Hub is the client for the configured Xena hub. It is safe for
	// concurrent use and shared by every request.
	Hub *xena.Client

	// Metrics collects hub call counters and latencies.
	Metrics *metrics.HubMetrics

	httpServer *http.Server
}

// New constructs a Server and its hub client. No network call is made.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("config and logger are required")
	}

	hubMetrics := metrics.NewHubMetrics()

	httpClient := &http.Client{Timeout: cfg.Hub.Timeout}

	// Outbound hub requests become external segments of the New Relic
	// transaction carried by the request context.
	if loggerService != nil && loggerService.GetApplication() != nil {
		httpClient.Transport = newrelic.NewRoundTripper(http.DefaultTransport)
	}

	hubLogger := logger.With().Str("component", "xena").Str("hub", cfg.Hub.Host).Logger()

	hub := xena.NewClient(cfg.Hub.Host,
		xena.WithHTTPClient(httpClient),
		xena.WithObserver(hubMetrics),
		xena.WithLogger(&hubLogger, cfg.Observability.Logging.SlowHubCallThreshold),
	)

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Hub:           hub,
		Metrics:       hubMetrics,
	}, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("hub", s.Hub.Host()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections, waits for in-flight requests until
// ctx expires and flushes New Relic, even when the HTTP shutdown fails.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown HTTP server: %w", shutdownErr)
		}
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return err
}
