// models/service.go
package models

import (
	"strings"
	"time"
)

// Service is a catalog entry customers can book (e.g. "Oil Change").
type Service struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
	Duration    int     `bson:"duration" json:"duration"` // minutes

	// Legacy computed-availability configuration, only consulted when no
	// explicit TimeSlot rows exist for a service/date.
	AvailableDays  []string `bson:"availableDays,omitempty" json:"availableDays,omitempty"`   // e.g. "Monday"
	AvailableTimes []string `bson:"availableTimes,omitempty" json:"availableTimes,omitempty"` // e.g. "09:00"

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ServiceUpdateRequest carries a partial admin edit of a catalog entry.
type ServiceUpdateRequest struct {
	Name           *string   `json:"name,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	Duration       *int      `json:"duration,omitempty"`
	AvailableDays  *[]string `json:"availableDays,omitempty"`
	AvailableTimes *[]string `json:"availableTimes,omitempty"`
}

// OffersDay reports whether the legacy weekday list includes the given weekday.
// An empty list means every day is offered.
func (s *Service) OffersDay(day time.Weekday) bool {
	if len(s.AvailableDays) == 0 {
		return true
	}
	for _, d := range s.AvailableDays {
		if len(d) >= 3 && strings.EqualFold(d[:3], day.String()[:3]) {
			return true
		}
	}
	return false
}
