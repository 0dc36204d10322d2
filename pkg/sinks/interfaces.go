package sinks

import "context"

// Sink delivers restaurant events to a downstream system (HTTP, SQS, etc).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
	Close() error
}
