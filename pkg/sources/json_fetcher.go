package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/tablehop/menu-courier/internal/codec"
	"github.com/tablehop/menu-courier/internal/domain"
)

// jsonFetcher reads restaurant documents served as plain JSON.
type jsonFetcher struct {
	client HTTPGetter
}

func NewJSONFetcher(client HTTPGetter) Fetcher {
	return &jsonFetcher{client: client}
}

func (f *jsonFetcher) Type() string { return TypeJSON }

func (f *jsonFetcher) Fetch(ctx context.Context, src Source) ([]domain.Restaurant, error) {
	if !strings.EqualFold(src.Type, TypeJSON) {
		return nil, fmt.Errorf("json fetcher received incompatible source type %q", src.Type)
	}

	body, err := f.client.Get(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.ID, err)
	}

	restaurants, err := codec.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.ID, err)
	}
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("source %s returned no restaurants", src.ID)
	}
	return restaurants, nil
}
