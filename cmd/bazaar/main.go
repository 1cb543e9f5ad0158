// Package main provides the bazaar CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mesh-intelligence/bazaar/internal/cli"
	"github.com/mesh-intelligence/bazaar/internal/telemetry"
	"github.com/mesh-intelligence/bazaar/pkg/bazaar"
)

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	shutdown := func(context.Context) error { return nil }
	if cfg, err := telemetry.ParseEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
	} else if s, err := telemetry.Setup(ctx, cfg, "bazaar", bazaar.Version); err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
	} else {
		shutdown = s
	}

	code := cli.Execute(ctx)
	_ = shutdown(context.Background())
	stop()
	os.Exit(code)
}
