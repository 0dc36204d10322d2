package sinks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient defines the minimal subset of the SNS client used by snsSink.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsSink implements the Sink interface for AWS SNS topics.
type snsSink struct {
	id       string
	topicARN string
	client   snsClient
	log      Logger
}

func newSNSSink(ctx context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("sink %q missing sns configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.AWSAccess)
	if err != nil {
		return nil, err
	}

	endpoint := endpointOverride(cfg.SNS.Endpoint)
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})

	return &snsSink{
		id:       cfg.ID,
		topicARN: cfg.SNS.TopicARN,
		client:   client,
		log:      ensureLogger(deps.Log),
	}, nil
}

func (s *snsSink) ID() string   { return s.id }
func (s *snsSink) Type() string { return TypeSNS }
func (s *snsSink) Close() error { return nil }

func (s *snsSink) Send(ctx context.Context, evt Event) error {
	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(payload),
		MessageAttributes: map[string]types.MessageAttributeValue{
			attrSourceID: {
				DataType:    aws.String("String"),
				StringValue: aws.String(evt.SourceID),
			},
		},
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		s.log.ErrorObj("sns sink publish failed", "sink_sns_error", map[string]any{
			"sink_id": s.id,
			"error":   err.Error(),
		})
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("sns sink delivered event", "sink_sns_delivery", map[string]any{
		"sink_id":    s.id,
		"message_id": aws.ToString(out.MessageId),
	})
	return nil
}
