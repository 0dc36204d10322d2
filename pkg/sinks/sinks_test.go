package sinks

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sinks.yaml")
	raw := `
sinks:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/menus
      region: us-east-1
      endpoint: http://localhost:4566
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "queue" {
		t.Fatalf("expected only queue enabled, got %#v", enabled)
	}
	if enabled[0].Type != TypeSQS || enabled[0].SQS.Endpoint != "http://localhost:4566" || enabled[0].SQS.Region != "us-east-1" {
		t.Fatalf("unexpected sqs config %#v", enabled[0].SQS)
	}
	if _, ok := reg.ByID("http1"); !ok {
		t.Fatalf("disabled sink should still be addressable by id")
	}
}

func TestLoadRegistryJSONFlattensAWSAccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sinks.json")
	raw := `{"sinks":[{"id":"topic","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:menus","region":"us-east-1"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, _ := reg.ByID("topic")
	if cfg.SNS == nil || cfg.SNS.Region != "us-east-1" {
		t.Fatalf("unexpected sns config %#v", cfg.SNS)
	}
}

func TestValidateSinkConfig(t *testing.T) {
	cases := []SinkConfig{
		{Type: TypeHTTP},
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS, SQS: &SQSSinkConfig{QueueURL: "https://example.com/q"}},
		{ID: "t1", Type: TypeSNS, SNS: &SNSSinkConfig{AWSAccess: AWSAccess{Region: "us-east-1"}}},
		{ID: "p1", Type: TypePubSub, PubSub: &PubSubSinkConfig{ProjectID: "proj"}},
	}
	for _, cfg := range cases {
		if err := validateSinkConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}
