package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/skill404/landing/config"
	"github.com/skill404/landing/domain"
	"github.com/skill404/landing/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := log.NewLoggerWithJSONOutput()

	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrateRequested(os.Args[1:]))
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err)
		os.Exit(1)
	}

	domain.SetupCoreDomain(appConfig)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := appConfig.RouterService.RunHTTPServer(); err != nil {
			serverErr <- err
		}
	}()

	logger.Info("Skill404 landing service started")

	select {
	case err := <-serverErr:
		logger.Error("Server error", "error", err)
		appConfig.Cleanup()
		os.Exit(1)

	case sig := <-quit:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := appConfig.RouterService.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		appConfig.Cleanup()

		logger.Info("Graceful shutdown completed")
	}
}

func autoMigrateRequested(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			return true
		}
	}
	return false
}
