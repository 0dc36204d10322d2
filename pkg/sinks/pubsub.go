package sinks

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubSink implements the Sink interface for a GCP Pub/Sub topic.
// PUBSUB_EMULATOR_HOST is honoured by the client library.
type pubsubSink struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

func newPubSubSink(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("sink %q missing pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubSink{
		id:     cfg.ID,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    ensureLogger(deps.Log),
	}, nil
}

func (p *pubsubSink) ID() string   { return p.id }
func (p *pubsubSink) Type() string { return TypePubSub }

// Send publishes the event and waits for the server acknowledgement.
func (p *pubsubSink) Send(ctx context.Context, evt Event) error {
	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:       []byte(payload),
		Attributes: map[string]string{attrSourceID: evt.SourceID},
	})
	id, err := res.Get(ctx)
	if err != nil {
		p.log.ErrorObj("pubsub sink publish failed", "sink_pubsub_error", map[string]any{
			"sink_id": p.id,
			"error":   err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	p.log.DebugObj("pubsub sink delivered event", "sink_pubsub_delivery", map[string]any{
		"sink_id":    p.id,
		"message_id": id,
	})
	return nil
}

func (p *pubsubSink) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
