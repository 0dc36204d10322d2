package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tablehop/menu-courier/internal/app"
	"github.com/tablehop/menu-courier/internal/config"
	"github.com/tablehop/menu-courier/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "courier start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	once := flag.Bool("once", false, "run a single sync pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("courier starting", "startup", app.StartupSummary(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.NewCourier(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("courier init failed", "init_error", map[string]any{
			"sources_file": cfg.SourcesFile,
			"sinks_file":   cfg.SinksFile,
			"error":        err.Error(),
		})
		return err
	}

	if *once {
		return c.RunOnce(ctx)
	}
	return c.Run(ctx)
}
