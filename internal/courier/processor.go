package courier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tablehop/menu-courier/internal/codec"
	"github.com/tablehop/menu-courier/internal/domain"
	"github.com/tablehop/menu-courier/internal/logger"
	"github.com/tablehop/menu-courier/pkg/sources"
	"github.com/tablehop/menu-courier/pkg/sinks"
)

// SourceProcessor fetches one source and delivers the restaurants that changed.
type SourceProcessor struct {
	registry  sources.FetcherRegistry
	publisher EventPublisher
	log       logger.Logger
	deduper   Deduper
}

// NewSourceProcessor wires a processor; a nil deduper delivers every restaurant.
func NewSourceProcessor(reg sources.FetcherRegistry, pub EventPublisher, log logger.Logger, dedup Deduper) *SourceProcessor {
	return &SourceProcessor{
		registry:  reg,
		publisher: pub,
		log:       logger.Ensure(log),
		deduper:   dedup,
	}
}

// pending is a restaurant that still has to be delivered.
type pending struct {
	restaurant domain.Restaurant
	digest     string
}

// Process runs one fetch-and-deliver pass for src.
func (p *SourceProcessor) Process(ctx context.Context, src sources.Source) error {
	fetcher, err := p.registry.FetcherFor(src)
	if err != nil {
		return fmt.Errorf("resolve fetcher for source %s: %w", src.ID, err)
	}

	restaurants, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return fmt.Errorf("fetch source %s: %w", src.ID, err)
	}

	fresh, err := p.filterChanged(src, restaurants)
	if err != nil {
		return err
	}

	delivered, err := p.deliver(ctx, src, fresh)

	p.log.InfoObj("source sync completed", "source_result", map[string]any{
		"source_id":   src.ID,
		"fetched":     len(restaurants),
		"changed":     len(fresh),
		"delivered":   delivered,
		"had_failure": err != nil,
	})
	return err
}

// filterChanged digests each restaurant and drops the ones already delivered unchanged.
// Lookup failures are logged and the restaurant is delivered anyway.
func (p *SourceProcessor) filterChanged(src sources.Source, restaurants []domain.Restaurant) ([]pending, error) {
	out := make([]pending, 0, len(restaurants))
	for _, r := range restaurants {
		digest, err := codec.Digest(r)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.ID, err)
		}

		if p.deduper != nil {
			same, err := p.deduper.Unchanged(dedupeKey(src, r), digest)
			if err != nil {
				p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
					"source_id":     src.ID,
					"restaurant_id": r.Key(),
					"error":         err.Error(),
				})
			} else if same {
				continue
			}
		}
		out = append(out, pending{restaurant: r, digest: digest})
	}
	return out, nil
}

// dedupeKey scopes a restaurant to its source so equal IDs from different sources don't collide.
func dedupeKey(src sources.Source, r domain.Restaurant) string {
	return src.ID + "/" + r.Key()
}

func (p *SourceProcessor) deliver(ctx context.Context, src sources.Source, items []pending) (int, error) {
	if p.publisher == nil {
		return 0, nil
	}

	delay := src.RequestDelay()
	var errs []error
	delivered := 0

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}

		evt := sinks.NewEvent(src.ID, src.Name, item.restaurant, item.digest)
		n, err := p.publisher.Publish(ctx, evt)
		if err != nil {
			errs = append(errs, fmt.Errorf("deliver restaurant %s: %w", item.restaurant.Key(), err))
		}
		if n > 0 {
			delivered++
			p.remember(src, item)
		}

		if delay > 0 && i < len(items)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	return delivered, errors.Join(errs...)
}

func (p *SourceProcessor) remember(src sources.Source, item pending) {
	if p.deduper == nil {
		return
	}
	if err := p.deduper.Remember(dedupeKey(src, item.restaurant), item.digest); err != nil {
		p.log.WarnObj("dedupe remember failed", "dedupe_error", map[string]any{
			"source_id":     src.ID,
			"restaurant_id": item.restaurant.Key(),
			"error":         err.Error(),
		})
	}
}
