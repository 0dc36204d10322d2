package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tablehop/menu-courier/internal/domain"
	"github.com/tablehop/menu-courier/internal/logger"
)

const (
	ConfigSelectorKey = "selector"

	defaultJSONLDSelector = `script[type="application/ld+json"]`
	schemaRestaurant      = "Restaurant"
)

// jsonldFetcher extracts schema.org Restaurant entries embedded in HTML pages.
type jsonldFetcher struct {
	client HTTPGetter
	log    logger.Logger
}

// NewJSONLDFetcher builds the fetcher; skipped script blocks are reported on log.
func NewJSONLDFetcher(client HTTPGetter, log logger.Logger) Fetcher {
	return &jsonldFetcher{client: client, log: logger.Ensure(log)}
}

func (f *jsonldFetcher) Type() string { return TypeJSONLD }

func (f *jsonldFetcher) Fetch(ctx context.Context, src Source) ([]domain.Restaurant, error) {
	if !strings.EqualFold(src.Type, TypeJSONLD) {
		return nil, fmt.Errorf("jsonld fetcher received incompatible source type %q", src.Type)
	}

	page, err := f.client.Get(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.ID, err)
	}

	restaurants, err := parseJSONLD(page, ConfigString(src, ConfigSelectorKey, defaultJSONLDSelector), src.ID, f.log)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.ID, err)
	}
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("source %s page has no schema.org Restaurant entries", src.ID)
	}
	return restaurants, nil
}

// parseJSONLD walks every matching script block; blocks that fail to decode are skipped.
func parseJSONLD(page, selector, sourceID string, log logger.Logger) ([]domain.Restaurant, error) {
	log = logger.Ensure(log)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []domain.Restaurant
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		nodes, err := decodeLDNodes([]byte(strings.TrimSpace(s.Text())))
		if err != nil {
			log.WarnObj("jsonld block skipped", "jsonld_error", map[string]any{
				"source_id": sourceID,
				"error":     err.Error(),
			})
			return
		}
		for _, n := range nodes {
			if n.isRestaurant() {
				out = append(out, n.toRestaurant())
			}
		}
	})
	return out, nil
}

// ldNode is the subset of a schema.org Restaurant that maps onto domain.Restaurant.
type ldNode struct {
	Type          flexStrings       `json:"@type"`
	ID            string            `json:"@id"`
	Identifier    flexString        `json:"identifier"`
	Name          string            `json:"name"`
	Telephone     string            `json:"telephone"`
	URL           string            `json:"url"`
	ServesCuisine flexStrings       `json:"servesCuisine"`
	Address       json.RawMessage   `json:"address"`
	Rating        *ldRating         `json:"aggregateRating"`
	Hours         json.RawMessage   `json:"openingHoursSpecification"`
	Menu          json.RawMessage   `json:"hasMenu"`
	Graph         []json.RawMessage `json:"@graph"`
}

type ldRating struct {
	RatingValue flexFloat `json:"ratingValue"`
}

type ldAddress struct {
	Street   string          `json:"streetAddress"`
	Locality string          `json:"addressLocality"`
	Region   string          `json:"addressRegion"`
	Postal   flexString      `json:"postalCode"`
	Country  json.RawMessage `json:"addressCountry"`
}

type ldHours struct {
	DayOfWeek flexStrings `json:"dayOfWeek"`
	Opens     string      `json:"opens"`
	Closes    string      `json:"closes"`
}

type ldMenu struct {
	Sections json.RawMessage `json:"hasMenuSection"`
	Items    json.RawMessage `json:"hasMenuItem"`
}

type ldSection struct {
	Name  string          `json:"name"`
	Items json.RawMessage `json:"hasMenuItem"`
}

type ldMenuItem struct {
	ID          string          `json:"@id"`
	Identifier  flexString      `json:"identifier"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Offers      json.RawMessage `json:"offers"`
}

type ldOffer struct {
	Price flexFloat `json:"price"`
}

// decodeLDNodes accepts a single node, an array of nodes, or a document with @graph.
func decodeLDNodes(raw []byte) ([]ldNode, error) {
	nodes, err := oneOrMany[ldNode](raw)
	if err != nil {
		return nil, err
	}

	var out []ldNode
	for _, n := range nodes {
		out = append(out, n)
		for _, g := range n.Graph {
			inner, err := decodeLDNodes(g)
			if err != nil {
				continue
			}
			out = append(out, inner...)
		}
	}
	return out, nil
}

func (n ldNode) isRestaurant() bool {
	for _, t := range n.Type {
		if strings.EqualFold(t, schemaRestaurant) {
			return true
		}
	}
	return false
}

func (n ldNode) toRestaurant() domain.Restaurant {
	r := domain.Restaurant{
		ID:          firstNonEmpty(string(n.Identifier), n.ID),
		Name:        strings.TrimSpace(n.Name),
		PhoneNumber: domain.StringPtr(strings.TrimSpace(n.Telephone)),
		Website:     domain.StringPtr(strings.TrimSpace(n.URL)),
		Cuisines:    []string(n.ServesCuisine),
		Address:     parseLDAddress(n.Address),
	}
	if n.Rating != nil {
		r.Rating = float64(n.Rating.RatingValue)
	}

	hours, _ := oneOrMany[ldHours](n.Hours)
	for _, h := range hours {
		open, errOpen := domain.ParseClockTime(h.Opens)
		closing, errClose := domain.ParseClockTime(h.Closes)
		if errOpen != nil || errClose != nil {
			continue
		}
		for _, day := range h.DayOfWeek {
			wd, err := domain.ParseWeekday(day)
			if err != nil {
				continue
			}
			r.OpeningHours = append(r.OpeningHours, domain.OpeningHour{DayOfWeek: wd, OpenTime: open, CloseTime: closing})
		}
	}

	r.Menu = parseLDMenu(n.Menu, r.Key())
	return r
}

func parseLDAddress(raw json.RawMessage) domain.Address {
	var street string
	if err := json.Unmarshal(raw, &street); err == nil {
		return domain.Address{Street: strings.TrimSpace(street)}
	}

	var a ldAddress
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.Address{}
	}

	country := ""
	if err := json.Unmarshal(a.Country, &country); err != nil {
		var named struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(a.Country, &named) == nil {
			country = named.Name
		}
	}

	return domain.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.Locality),
		State:   strings.TrimSpace(a.Region),
		ZipCode: strings.TrimSpace(string(a.Postal)),
		Country: strings.TrimSpace(country),
	}
}

// parseLDMenu flattens sections into menu items; the section name becomes the category.
// A hasMenu given as a plain URL yields no items.
func parseLDMenu(raw json.RawMessage, restaurantKey string) []domain.MenuItem {
	menus, err := oneOrMany[ldMenu](raw)
	if err != nil {
		return nil
	}

	var out []domain.MenuItem
	add := func(items json.RawMessage, category string) {
		parsed, _ := oneOrMany[ldMenuItem](items)
		for _, it := range parsed {
			item := domain.MenuItem{
				ID:          firstNonEmpty(string(it.Identifier), it.ID),
				Name:        strings.TrimSpace(it.Name),
				Description: domain.StringPtr(strings.TrimSpace(it.Description)),
				Category:    domain.StringPtr(category),
			}
			if item.ID == "" {
				item.ID = fmt.Sprintf("%s-menu-%d", restaurantKey, len(out)+1)
			}
			if offers, _ := oneOrMany[ldOffer](it.Offers); len(offers) > 0 {
				item.Price = float64(offers[0].Price)
			}
			out = append(out, item)
		}
	}

	for _, m := range menus {
		add(m.Items, "")
		sections, _ := oneOrMany[ldSection](m.Sections)
		for _, s := range sections {
			add(s.Items, strings.TrimSpace(s.Name))
		}
	}
	return out
}

// oneOrMany decodes raw as either a T or a []T. Empty input yields nothing.
func oneOrMany[T any](raw json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var many []T
		if err := json.Unmarshal([]byte(trimmed), &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal([]byte(trimmed), &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexStrings accepts a JSON string or an array of strings.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*f = flexStrings{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = flexFloat(parsed)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
