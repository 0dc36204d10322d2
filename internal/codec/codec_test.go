package codec

import (
	"strings"
	"testing"

	"github.com/tablehop/menu-courier/internal/domain"
	"github.com/tablehop/menu-courier/internal/sample"
)

const sampleJSON = `{"id":"rest-123","name":"Sample Diner","rating":4.5,"phoneNumber":"555-1234","website":"www.samplediner.com",` +
	`"address":{"street":"123 Main St","city":"SomeCity","state":"CA","zipCode":"98765","country":"USA"},` +
	`"cuisines":["American","Fast Food"],` +
	`"openingHours":[{"dayOfWeek":"MONDAY","openTime":"08:00","closeTime":"20:00"},{"dayOfWeek":"TUESDAY","openTime":"08:00","closeTime":"20:00"}],` +
	`"menu":[{"id":"menu-1","name":"Burger","description":"Tasty beef burger","price":5.99,"category":"Main"},` +
	`{"id":"menu-2","name":"Fries","description":"Crispy fries","price":2.49,"category":"Side"}]}`

func TestEncodeSampleRestaurant(t *testing.T) {
	got, err := Encode(sample.Restaurant())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != sampleJSON {
		t.Fatalf("Encode mismatch\n got: %s\nwant: %s", got, sampleJSON)
	}
}

func TestEncodeKeepsEmptyCollections(t *testing.T) {
	got, err := Encode(domain.Restaurant{ID: "r1"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{`"cuisines":[]`, `"openingHours":[]`, `"menu":[]`, `"phoneNumber":null`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
}

func TestDecodeSingleAndList(t *testing.T) {
	one, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode single: %v", err)
	}
	if len(one) != 1 || one[0].Name != "Sample Diner" || one[0].OpeningHours[1].CloseTime.String() != "20:00" {
		t.Fatalf("unexpected decode result %#v", one)
	}

	many, err := Decode([]byte("  [" + sampleJSON + "," + sampleJSON + "]\n"))
	if err != nil {
		t.Fatalf("Decode list: %v", err)
	}
	if len(many) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(many))
	}

	if _, err := Decode([]byte("   ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := Decode([]byte(`{"openingHours":[{"dayOfWeek":"SOMEDAY"}]}`)); err == nil {
		t.Fatalf("expected error for invalid weekday")
	}
}

func TestDigestTracksContent(t *testing.T) {
	r := sample.Restaurant()
	d1, err := Digest(r)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	d2, _ := Digest(sample.Restaurant())
	if d1 != d2 || len(d1) != 64 {
		t.Fatalf("digest not stable: %s vs %s", d1, d2)
	}

	r.Menu[0].Price = 6.49
	d3, _ := Digest(r)
	if d3 == d1 {
		t.Fatalf("digest should change when the menu changes")
	}
}
