package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tablehop/menu-courier/internal/domain"
	"github.com/tablehop/menu-courier/internal/logger"
	"github.com/tablehop/menu-courier/pkg/requestclient"
)

// Fetcher retrieves the restaurants published by a source.
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, src Source) ([]domain.Restaurant, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source.
type FetcherRegistry interface {
	FetcherFor(src Source) (Fetcher, error)
}

// HTTPGetter aliases the request client surface fetchers rely on.
type HTTPGetter = requestclient.Getter

type fetcherRegistry struct {
	mu     sync.RWMutex
	byID   map[string]Fetcher
	byType map[string]Fetcher
}

// NewFetcherRegistry builds a registry keyed by source type, with optional per-source overrides.
func NewFetcherRegistry(byType map[string]Fetcher, byID map[string]Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		byID:   make(map[string]Fetcher),
		byType: make(map[string]Fetcher),
	}
	for typ, f := range byType {
		reg.register(reg.byType, typ, f)
	}
	for id, f := range byID {
		reg.register(reg.byID, id, f)
	}
	return reg
}

func (r *fetcherRegistry) register(dst map[string]Fetcher, key string, f Fetcher) {
	key = strings.ToLower(strings.TrimSpace(key))
	if f == nil || key == "" {
		return
	}

	r.mu.Lock()
	dst[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the source by id first, then by type.
func (r *fetcherRegistry) FetcherFor(src Source) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(src.ID) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.byID[strings.ToLower(strings.TrimSpace(src.ID))]; ok {
		return f, nil
	}
	if typ := strings.ToLower(strings.TrimSpace(src.Type)); typ != "" {
		if f, ok := r.byType[typ]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for source %q (type %q)", src.ID, src.Type)
}

// DefaultFetcherRegistry wires up the built-in fetchers on top of client.
func DefaultFetcherRegistry(client HTTPGetter, log logger.Logger) FetcherRegistry {
	if client == nil {
		client = requestclient.New()
	}

	return NewFetcherRegistry(map[string]Fetcher{
		TypeJSON:   NewJSONFetcher(client),
		TypeJSONLD: NewJSONLDFetcher(client, log),
	}, nil)
}
