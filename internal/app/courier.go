package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tablehop/menu-courier/internal/config"
	"github.com/tablehop/menu-courier/internal/courier"
	"github.com/tablehop/menu-courier/internal/logger"
	"github.com/tablehop/menu-courier/internal/storage"
	"github.com/tablehop/menu-courier/pkg/requestclient"
	"github.com/tablehop/menu-courier/pkg/sinks"
	"github.com/tablehop/menu-courier/pkg/sources"
)

// Courier represents the menu courier runtime. It manages the sync loop,
// coordinating between sources, the courier service, and sinks. It also
// handles storage initialization and cleanup.
type Courier struct {
	cfg          *config.Config
	sourceReg    *sources.Registry
	fanout       *sinks.Fanout
	service      *courier.Service
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewCourier builds a courier runtime from config files.
func NewCourier(ctx context.Context, cfg *config.Config, log logger.Logger) (*Courier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	sourceReg, err := sources.LoadRegistry(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	sourceList := sourceReg.All()
	sourceIDs := make([]string, 0, len(sourceList))
	for _, s := range sourceList {
		sourceIDs = append(sourceIDs, s.ID)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(sourceIDs),
		"ids":   sourceIDs,
	})

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabledSinks := sinkReg.Enabled()
	if len(enabledSinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	client := NewRequestClient(cfg)

	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabledSinks, sinks.Deps{
		Poster: client,
		Log:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(built)
	sinkSummaries := make([]map[string]string, 0, len(enabledSinks))
	for _, sc := range enabledSinks {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sc.ID,
			"type": sc.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(sinkSummaries),
		"sinks": sinkSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := courier.NewService(sources.DefaultFetcherRegistry(client, log), fanout, log, store)

	return &Courier{
		cfg:          cfg,
		sourceReg:    sourceReg,
		fanout:       fanout,
		service:      service,
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}, nil
}

// NewRequestClient builds the shared request client from the HTTP settings in cfg.
func NewRequestClient(cfg *config.Config) *requestclient.Client {
	var opts []requestclient.Option
	if cfg != nil {
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, requestclient.WithTimeout(cfg.HTTPTimeout))
		}
		if cfg.UserAgent != "" {
			opts = append(opts, requestclient.WithUserAgent(cfg.UserAgent))
		}
	}
	return requestclient.New(opts...)
}

// Run starts the sync loop until the context is cancelled.
func (c *Courier) Run(ctx context.Context) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("courier is not initialized")
	}
	defer c.shutdown()

	srcs := c.sourceReg.All()
	if len(srcs) == 0 {
		c.log.WarnObj("no sources configured; courier idle", "sources_file", c.cfg.SourcesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	c.log.InfoObj("courier loop starting", "courier_state", map[string]any{
		"sources_count": len(srcs),
		"sinks_count":   c.fanout.Size(),
		"sync_interval": c.syncInterval.String(),
	})

	if err := c.runOnce(ctx, srcs); err != nil {
		c.log.ErrorObj("initial sync failed", "error", err.Error())
	}

	ticker := time.NewTicker(c.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.InfoObj("courier loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := c.runOnce(ctx, srcs); err != nil {
				c.log.ErrorObj("scheduled sync failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single sync pass and releases resources afterwards.
func (c *Courier) RunOnce(ctx context.Context) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("courier is not initialized")
	}
	defer c.shutdown()
	return c.runOnce(ctx, c.sourceReg.All())
}

func (c *Courier) runOnce(ctx context.Context, srcs []sources.Source) error {
	start := time.Now()
	c.log.InfoObj("sync started", "sync_meta", map[string]any{
		"sources_count": len(srcs),
		"started_at":    start.UTC(),
	})
	if err := c.service.Run(ctx, srcs); err != nil {
		return err
	}
	c.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"sources_count": len(srcs),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// shutdown closes the sinks and the storage backend, logging any errors encountered.
func (c *Courier) shutdown() {
	if c.fanout != nil {
		if err := c.fanout.Close(); err != nil {
			c.log.ErrorObj("sinks close failed", "error", err.Error())
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
}

// StartupSummary is the subset of cfg logged when a command starts.
func StartupSummary(cfg *config.Config) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"env":            cfg.Env,
		"log_level":      cfg.LogLevel,
		"sources_file":   cfg.SourcesFile,
		"sinks_file":     cfg.SinksFile,
		"sync_interval":  cfg.SyncInterval.String(),
		"http_timeout":   cfg.HTTPTimeout.String(),
		"storage_type":   cfg.StorageType,
		"echo_enabled":   cfg.EchoURL != "",
	}
}
