package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/xenaviz/internal/config"
	"github.com/deppfellow/xenaviz/internal/handler"
	"github.com/deppfellow/xenaviz/internal/logger"
	"github.com/deppfellow/xenaviz/internal/repository"
	"github.com/deppfellow/xenaviz/internal/router"
	"github.com/deppfellow/xenaviz/internal/server"
	"github.com/deppfellow/xenaviz/internal/service"
)

const DefaultContextTimeout = 30

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	loggerService := logger.NewLoggerService(cfg.Observability)

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		loggerService.Shutdown()
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)

	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var startErr error
	select {
	case <-ctx.Done():
	case startErr = <-serveErr:
	}
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	// Shutdown also flushes New Relic.
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if startErr != nil {
		log.Fatal().Err(startErr).Msg("failed to start server")
	}

	log.Info().Msg("server exited properly")
}
