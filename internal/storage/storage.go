package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which restaurant documents were already delivered.

// Store tracks the last delivered digest per restaurant key.
type Store interface {
	Close() error
	// Unchanged reports whether key was delivered with this exact digest and has not expired.
	Unchanged(key, digest string) (bool, error)
	Remember(key, digest string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore treats every document as changed.
type noopStore struct{}

func (noopStore) Close() error                           { return nil }
func (noopStore) Unchanged(string, string) (bool, error) { return false, nil }
func (noopStore) Remember(string, string) error          { return nil }
