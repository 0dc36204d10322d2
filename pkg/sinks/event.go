package sinks

import (
	"time"

	"github.com/tablehop/menu-courier/internal/domain"
)

// Event represents the payload delivered downstream.
type Event struct {
	SourceID    string            `json:"source_id"`
	SourceName  string            `json:"source_name"`
	Restaurant  domain.Restaurant `json:"restaurant"`
	Digest      string            `json:"digest"`
	CollectedAt time.Time         `json:"collected_at"`
}

// NewEvent constructs an Event for the given source + restaurant.
func NewEvent(sourceID, sourceName string, restaurant domain.Restaurant, digest string) Event {
	return Event{
		SourceID:    sourceID,
		SourceName:  sourceName,
		Restaurant:  restaurant,
		Digest:      digest,
		CollectedAt: time.Now().UTC(),
	}
}
