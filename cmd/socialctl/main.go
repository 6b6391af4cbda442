package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"social-lab/internal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run keeps every deferred Close on the way out, which os.Exit in main would skip.
func run(args []string) error {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	a, err := newApp(config, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.lifecycle.Connect(ctx); err != nil {
		return fmt.Errorf("connect to %s: %w", config.StorageBackend, err)
	}
	defer func() {
		log.Debug("Closing store", "backend", config.StorageBackend)
		_ = a.lifecycle.Close(context.Background())
	}()
	if err := a.ensureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	return dispatch(ctx, a, args, os.Stdout)
}
