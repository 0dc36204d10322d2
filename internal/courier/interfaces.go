package courier

import (
	"context"

	"github.com/tablehop/menu-courier/pkg/sinks"
)

// EventPublisher delivers restaurant events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt sinks.Event) (int, error)
}

// Deduper remembers which restaurant versions were already delivered.
type Deduper interface {
	Unchanged(key, digest string) (bool, error)
	Remember(key, digest string) error
}
