// Package availability answers which times a customer can book for a
// service on a date, preferring the explicit slot inventory over the
// service's legacy day/time configuration.
package availability

import (
	"context"
	"fmt"
	"time"

	bookingRepo "mobilemech/database/repository/booking"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/services/catalog"
	"mobilemech/services/timeslot"
	"mobilemech/utils"
)

// Source tells which data produced an availability answer.
type Source string

const (
	SourceInventory Source = "inventory"
	SourceLegacy    Source = "legacy"
)

// AvailabilityService resolves bookable times.
type AvailabilityService interface {
	// AvailableTimes returns the ordered bookable times for serviceID on date.
	AvailableTimes(ctx context.Context, serviceID, date string) ([]string, error)
	// Resolve is AvailableTimes plus the source that answered.
	Resolve(ctx context.Context, serviceID, date string) ([]string, Source, error)
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Catalog  catalog.CatalogService
	Slots    timeslot.SlotService
	Bookings bookingRepo.BookingRepository
}

func (s *DefaultAvailabilityService) AvailableTimes(ctx context.Context, serviceID, date string) ([]string, error) {
	times, _, err := s.Resolve(ctx, serviceID, date)
	return times, err
}

// Resolve consults the slot inventory first. Once any slot exists for the
// service and date the inventory is authoritative, even when every slot is
// booked or disabled. Only a date with no slots falls back to the service's
// configured times minus the times of its non-cancelled bookings.
func (s *DefaultAvailabilityService) Resolve(ctx context.Context, serviceID, date string) ([]string, Source, error) {
	svc, err := s.Catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, "", err
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, "", apperr.NewValidation("%v", err)
	}
	dayStr := day.Format(utils.DateLayout)

	times, hasInventory, err := s.Slots.DayInventory(ctx, serviceID, dayStr)
	if err != nil {
		return nil, "", err
	}
	if hasInventory {
		return times, SourceInventory, nil
	}

	legacy, err := s.legacyTimes(ctx, svc, day.Weekday(), dayStr)
	if err != nil {
		return nil, "", err
	}
	return legacy, SourceLegacy, nil
}

func (s *DefaultAvailabilityService) legacyTimes(ctx context.Context, svc *models.Service, weekday time.Weekday, date string) ([]string, error) {
	out := []string{}
	if !svc.OffersDay(weekday) {
		return out, nil
	}

	bookings, err := s.Bookings.ListActiveByServiceAndDate(ctx, svc.ID, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s on %s: %w", svc.ID, date, err)
	}
	taken := make(map[string]bool, len(bookings))
	for i := range bookings {
		taken[bookings[i].Time] = true
	}

	for _, t := range svc.AvailableTimes {
		if !taken[t] {
			out = append(out, t)
		}
	}
	return out, nil
}
