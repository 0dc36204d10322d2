package sinks

import (
	"context"
	"fmt"
	"strings"

	"github.com/tablehop/menu-courier/internal/codec"
	"github.com/tablehop/menu-courier/pkg/requestclient"
)

const maxLoggedResponse = 256

// httpSink POSTs the restaurant document to a webhook.
type httpSink struct {
	id     string
	url    string
	poster requestclient.Poster
	log    Logger
}

func newHTTPSink(_ context.Context, cfg SinkConfig, deps Deps) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	poster := deps.Poster
	if poster == nil {
		poster = requestclient.New()
	}

	return &httpSink{
		id:     cfg.ID,
		url:    cfg.HTTP.URL,
		poster: poster,
		log:    ensureLogger(deps.Log),
	}, nil
}

func (h *httpSink) ID() string   { return h.id }
func (h *httpSink) Type() string { return TypeHTTP }
func (h *httpSink) Close() error { return nil }

func (h *httpSink) Send(ctx context.Context, evt Event) error {
	doc, err := codec.Encode(evt.Restaurant)
	if err != nil {
		return err
	}

	resp, err := h.poster.Post(ctx, h.url, doc)
	if err != nil {
		return fmt.Errorf("post restaurant %s: %w", evt.Restaurant.Key(), err)
	}

	h.log.DebugObj("http sink delivered restaurant", "sink_http_delivery", map[string]any{
		"sink_id":       h.id,
		"restaurant_id": evt.Restaurant.Key(),
		"response":      truncate(resp, maxLoggedResponse),
	})
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
