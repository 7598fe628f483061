package booking

import (
	"context"

	"mobilemech/database/repository"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, caller models.Identity, bookingID string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && !b.OwnedBy(caller.UserID) {
		// Other customers' bookings are reported as absent.
		return nil, apperr.NewBookingNotFound(bookingID)
	}
	return b, nil
}

func (s *DefaultBookingService) ListMyBookings(ctx context.Context, caller models.Identity, page, limit int) (*models.BookingPage, error) {
	if caller.UserID == "" {
		return nil, apperr.NewForbidden("sign in to view your bookings")
	}
	return s.find(ctx, models.BookingFilter{CustomerID: caller.UserID}, page, limit)
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, caller models.Identity, filter models.BookingFilter, page, limit int) (*models.BookingPage, error) {
	if !caller.IsAdmin {
		return nil, apperr.NewForbidden("only an admin can list all bookings")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.NewValidation("unknown booking status %q", filter.Status)
	}
	return s.find(ctx, filter, page, limit)
}

func (s *DefaultBookingService) find(ctx context.Context, filter models.BookingFilter, page, limit int) (*models.BookingPage, error) {
	page, limit, _ = repository.Paging(page, limit, utils.DefaultPageLimit, utils.MaxPageLimit)
	bookings, total, err := s.Bookings.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.BookingPage{
		Bookings:   bookings,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: repository.TotalPages(total, limit),
	}, nil
}
