package domain

import "strings"

// Domain contains the restaurant records exchanged between sources and sinks.

type Restaurant struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Rating       float64       `json:"rating"`
	PhoneNumber  *string       `json:"phoneNumber"`
	Website      *string       `json:"website"`
	Address      Address       `json:"address"`
	Cuisines     []string      `json:"cuisines"`
	OpeningHours []OpeningHour `json:"openingHours"`
	Menu         []MenuItem    `json:"menu"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type OpeningHour struct {
	DayOfWeek Weekday   `json:"dayOfWeek"`
	OpenTime  ClockTime `json:"openTime"`
	CloseTime ClockTime `json:"closeTime"`
}

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Category    *string `json:"category"`
}

// Key identifies a restaurant across fetches. It falls back to the name when no id is set.
func (r Restaurant) Key() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(r.Name))
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
