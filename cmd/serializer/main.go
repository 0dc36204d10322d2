package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tablehop/menu-courier/internal/app"
	"github.com/tablehop/menu-courier/internal/config"
	"github.com/tablehop/menu-courier/internal/logger"
	"github.com/tablehop/menu-courier/internal/sample"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "serializer failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("serializer starting", "startup", app.StartupSummary(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := app.NewRequestClient(cfg)
	if _, err := app.Serialize(ctx, os.Stdout, sample.Restaurant(), client, cfg.EchoURL, log); err != nil {
		return err
	}
	return nil
}
