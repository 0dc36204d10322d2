package courier

import (
	"context"
	"errors"
	"fmt"

	"github.com/tablehop/menu-courier/internal/logger"
	"github.com/tablehop/menu-courier/pkg/sources"
)

// Service coordinates syncing across multiple sources.
type Service struct {
	processor *SourceProcessor
	log       logger.Logger
}

// NewService wires a courier service with the fetcher registry, publisher and optional deduper.
func NewService(reg sources.FetcherRegistry, pub EventPublisher, log logger.Logger, dedup Deduper) *Service {
	log = logger.Ensure(log)
	return &Service{
		processor: NewSourceProcessor(reg, pub, log, dedup),
		log:       log,
	}
}

// Run executes a sync pass for all configured sources.
func (s *Service) Run(ctx context.Context, srcs []sources.Source) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("courier service is not initialized")
	}

	if len(srcs) == 0 {
		return fmt.Errorf("no sources configured for syncing")
	}

	errs := s.runAll(ctx, srcs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// runAll processes sources in order and stops early once ctx is done.
func (s *Service) runAll(ctx context.Context, srcs []sources.Source) []error {
	errs := make([]error, 0, len(srcs))

	for _, src := range srcs {
		if ctx.Err() != nil {
			break
		}
		if err := s.processor.Process(ctx, src); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("source sync failed", "source_error", map[string]any{
				"source_id": src.ID,
				"error":     err.Error(),
			})
		}
	}

	return errs
}
