package sinks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tablehop/menu-courier/pkg/requestclient"
)

// Deps carries the shared collaborators builders may need.
type Deps struct {
	Poster requestclient.Poster
	Log    Logger
}

// Builder creates a Sink from a config entry.
type Builder func(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error)

// Registry maps sink types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	SinkFor(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{
		builders: make(map[string]Builder),
	}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a sink type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// SinkFor returns the sink built for the provided config.
func (r *registry) SinkFor(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("sink %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no sink registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, deps)
}

// DefaultRegistry wires up known sinks.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPSink,
		TypeSQS:    newSQSSink,
		TypeSNS:    newSNSSink,
		TypePubSub: newPubSubSink,
	})
}

// BuildAll instantiates sinks for configs using the registry.
// Sinks built before a failure are closed again.
func BuildAll(ctx context.Context, reg Registry, cfgs []SinkConfig, deps Deps) ([]Sink, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var built []Sink
	for _, cfg := range cfgs {
		s, err := reg.SinkFor(ctx, cfg, deps)
		if err != nil {
			for _, b := range built {
				err = errors.Join(err, b.Close())
			}
			return nil, fmt.Errorf("build sink %q: %w", cfg.ID, err)
		}
		built = append(built, s)
	}
	return built, nil
}
