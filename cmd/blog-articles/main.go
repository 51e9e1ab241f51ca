package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/blog-articles/internal/config"
	"github.com/deppfellow/blog-articles/internal/database"
	"github.com/deppfellow/blog-articles/internal/handler"
	"github.com/deppfellow/blog-articles/internal/logger"
	"github.com/deppfellow/blog-articles/internal/repository"
	"github.com/deppfellow/blog-articles/internal/router"
	"github.com/deppfellow/blog-articles/internal/server"
	"github.com/deppfellow/blog-articles/internal/service"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout  = 30 * time.Second
	migrationTimeout = time.Minute
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	err = run(cfg, &log, loggerService, os.Args[1:])

	// Flush New Relic before exiting, including on failure.
	loggerService.Shutdown()

	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

// run migrates, serves until SIGINT/SIGTERM and shuts down gracefully.
// With the "migrate" argument it returns right after migrating.
func run(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService, args []string) error {
	migrateCtx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	err := database.Migrate(migrateCtx, log, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if len(args) > 0 && args[0] == "migrate" {
		return nil
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return fmt.Errorf("failed to start server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
