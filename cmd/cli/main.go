package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skill404/landing/config"
	"github.com/skill404/landing/internal/callback"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/migrations"
	"github.com/skill404/landing/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger)

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrate(logger); err != nil {
			logger.Error("Database migration failed", "error", err)
			os.Exit(1)
		}

	case "callback":
		if err := runCallback(logger, args[1:]); err != nil {
			logger.Error("Callback failed", "error", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrate(logger *log.Logger) error {
	dbCfg := config.NewDBConfig()

	db, err := config.NewDatabase(logger, dbCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	// golang-migrate closes the handle on success; a second close is harmless.
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	err = migrations.Up(ctx, sqlDB, migrations.Config{
		Dir:    utils.GetEnvTrimmed("MIGRATIONS_DIR"),
		Driver: dbCfg.Driver,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}

// runCallback finishes a GitHub sign-in outside the browser: the user pastes
// the URL GitHub redirected to and the token lands in the local store.
func runCallback(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("callback", flag.ContinueOnError)
	baseURL := fs.String("api", utils.GetEnvTrimmedOrDefault("SKILL404_API_URL", "http://localhost:8080"), "landing service base URL")
	storePath := fs.String("store", "", "token store path (default: user config dir)")
	timeout := fs.Duration("timeout", 30*time.Second, "exchange timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cli callback [flags] <callback-url>")
	}

	path := *storePath
	if path == "" {
		var err error
		if path, err = callback.DefaultStorePath(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = log.ContextWithCorrelationID(ctx, log.GenerateCorrelationID())

	flow := callback.NewFlow(callback.NewClient(*baseURL, nil), callback.NewFileStore(path), logger.WithCorrelationID(ctx))

	result, err := flow.Run(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	switch {
	case result.Redirect == "":
		fmt.Println("No authorization code in the callback URL; nothing to do.")
	case result.Stored:
		fmt.Printf("Signed in. Token saved to %s\n", path)
	default:
		fmt.Println("Sign-in failed; no token was saved.")
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate                 Run database migrations for APP_DATABASE_DRIVER and exit")
	fmt.Println("  callback [flags] <url>  Exchange the code in a GitHub callback URL and store the token")
}
