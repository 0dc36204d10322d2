package sinks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient defines the minimal subset of the SQS client used by sqsSink.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsSink implements the Sink interface for AWS SQS.
type sqsSink struct {
	id       string
	queueURL string
	client   sqsClient
	log      Logger
}

// newSQSSink creates a new SQS sink with the given configuration.
func newSQSSink(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("sink %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.AWSAccess)
	if err != nil {
		return nil, err
	}

	endpoint := endpointOverride(cfg.SQS.Endpoint)
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})

	return &sqsSink{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		client:   client,
		log:      ensureLogger(deps.Log),
	}, nil
}

func (s *sqsSink) ID() string   { return s.id }
func (s *sqsSink) Type() string { return TypeSQS }
func (s *sqsSink) Close() error { return nil }

// Send delivers the event to the configured SQS queue.
func (s *sqsSink) Send(ctx context.Context, evt Event) error {
	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(payload),
		MessageAttributes: map[string]types.MessageAttributeValue{
			attrSourceID: {
				DataType:    aws.String("String"),
				StringValue: aws.String(evt.SourceID),
			},
		},
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.log.ErrorObj("sqs sink send failed", "sink_sqs_error", map[string]any{
			"sink_id": s.id,
			"error":   err.Error(),
		})
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("sqs sink delivered event", "sink_sqs_delivery", map[string]any{
		"sink_id":    s.id,
		"message_id": aws.ToString(out.MessageId),
	})
	return nil
}
