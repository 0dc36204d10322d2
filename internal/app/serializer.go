package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tablehop/menu-courier/internal/codec"
	"github.com/tablehop/menu-courier/internal/domain"
	"github.com/tablehop/menu-courier/internal/logger"
	"github.com/tablehop/menu-courier/pkg/requestclient"
)

// Serialize writes the JSON form of r to w and, when echoURL is set, posts it there.
// It returns the response text of the echo endpoint, or "" when nothing was posted.
func Serialize(ctx context.Context, w io.Writer, r domain.Restaurant, poster requestclient.Poster, echoURL string, log logger.Logger) (string, error) {
	log = logger.Ensure(log)

	doc, err := codec.Encode(r)
	if err != nil {
		return "", fmt.Errorf("encode restaurant: %w", err)
	}
	if _, err := fmt.Fprintf(w, "Restaurant JSON: %s\n", doc); err != nil {
		return "", fmt.Errorf("write restaurant json: %w", err)
	}

	echoURL = strings.TrimSpace(echoURL)
	if echoURL == "" || poster == nil {
		return "", nil
	}

	resp, err := poster.Post(ctx, echoURL, doc)
	if err != nil {
		log.ErrorObj("echo post failed", "echo_error", map[string]any{
			"url":   echoURL,
			"error": err.Error(),
		})
		return "", fmt.Errorf("post restaurant: %w", err)
	}
	log.InfoObj("echo post succeeded", "echo_response", map[string]any{
		"url":  echoURL,
		"body": resp,
	})
	return resp, nil
}
