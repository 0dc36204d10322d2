// Package sample holds the fixed demo restaurant printed by the serializer command.
package sample

import (
	"time"

	"github.com/tablehop/menu-courier/internal/domain"
)

// Restaurant returns the "Sample Diner" record.
func Restaurant() domain.Restaurant {
	return domain.Restaurant{
		ID:   "rest-123",
		Name: "Sample Diner",
		Address: domain.Address{
			Street:  "123 Main St",
			City:    "SomeCity",
			State:   "CA",
			ZipCode: "98765",
			Country: "USA",
		},
		Rating:      4.5,
		Cuisines:    []string{"American", "Fast Food"},
		PhoneNumber: domain.StringPtr("555-1234"),
		Website:     domain.StringPtr("www.samplediner.com"),
		OpeningHours: []domain.OpeningHour{
			{DayOfWeek: domain.Weekday(time.Monday), OpenTime: domain.NewClockTime(8, 0), CloseTime: domain.NewClockTime(20, 0)},
			{DayOfWeek: domain.Weekday(time.Tuesday), OpenTime: domain.NewClockTime(8, 0), CloseTime: domain.NewClockTime(20, 0)},
		},
		Menu: []domain.MenuItem{
			{ID: "menu-1", Name: "Burger", Description: domain.StringPtr("Tasty beef burger"), Price: 5.99, Category: domain.StringPtr("Main")},
			{ID: "menu-2", Name: "Fries", Description: domain.StringPtr("Crispy fries"), Price: 2.49, Category: domain.StringPtr("Side")},
		},
	}
}
