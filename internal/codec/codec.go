// Package codec converts restaurant records to and from their JSON document form.
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tablehop/menu-courier/internal/domain"
)

// Encode renders r as a compact JSON document.
func Encode(r domain.Restaurant) (string, error) {
	raw, err := json.Marshal(normalize(r))
	if err != nil {
		return "", fmt.Errorf("encode restaurant %q: %w", r.Key(), err)
	}
	return string(raw), nil
}

// Decode accepts either a single restaurant object or an array of them.
func Decode(data []byte) ([]domain.Restaurant, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("decode restaurants: empty document")
	}

	if trimmed[0] == '[' {
		var list []domain.Restaurant
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode restaurant list: %w", err)
		}
		return list, nil
	}

	var single domain.Restaurant
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("decode restaurant: %w", err)
	}
	return []domain.Restaurant{single}, nil
}

// Digest returns the sha256 of the encoded document, used to detect changes between fetches.
func Digest(r domain.Restaurant) (string, error) {
	doc, err := Encode(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(doc))
	return hex.EncodeToString(sum[:]), nil
}

// normalize keeps empty collections as [] instead of null in the output.
func normalize(r domain.Restaurant) domain.Restaurant {
	if r.Cuisines == nil {
		r.Cuisines = []string{}
	}
	if r.OpeningHours == nil {
		r.OpeningHours = []domain.OpeningHour{}
	}
	if r.Menu == nil {
		r.Menu = []domain.MenuItem{}
	}
	return r
}
