package requestclient

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessagesCarryDiagnostics(t *testing.T) {
	rf := &RequestFailedError{Method: "GET", URL: "https://example.test/x", StatusCode: 503}
	if msg := rf.Error(); !strings.Contains(msg, "503 Service Unavailable") {
		t.Fatalf("missing status text fallback: %q", msg)
	}

	eb := &EmptyResponseBodyError{Method: "POST", URL: "https://example.test/y", StatusCode: 204}
	if msg := eb.Error(); !strings.Contains(msg, "empty response body") || !strings.Contains(msg, "204") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestWrappedErrorsStillMatch(t *testing.T) {
	err := fmt.Errorf("sink hook: %w", &RequestFailedError{StatusCode: 400})
	if !IsStatus(err, 400) || !errors.Is(err, ErrRequest) {
		t.Fatalf("wrapped RequestFailedError not recognised: %v", err)
	}
	if errors.Is(err, ErrEmptyResponseBody) {
		t.Fatalf("status failure must not match ErrEmptyResponseBody")
	}
}
