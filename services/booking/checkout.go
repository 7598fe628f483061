package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobilemech/database/repository"
	"mobilemech/metrics"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking books a service time for the calling customer. When a slot
// exists for the time it is reserved atomically; otherwise the time must be
// offered by the service's legacy configuration and is held through the
// booking's legacy hold key.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, caller models.Identity, req models.CreateBookingRequest) (*models.Booking, error) {
	if caller.UserID == "" {
		return nil, apperr.NewForbidden("sign in to book a service")
	}
	svc, err := s.Catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	day, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}
	tm, err := utils.NormalizeTime(req.Time)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}
	date := day.Format(utils.DateLayout)
	if date < s.now().Format(utils.DateLayout) {
		return nil, apperr.NewValidation("cannot book a date in the past")
	}

	now := s.now()
	b := &models.Booking{
		ID:         uuid.New().String(),
		ServiceID:  svc.ID,
		CustomerID: caller.UserID,
		Date:       date,
		Time:       tm,
		Status:     models.StatusPending,
		Vehicle:    req.Vehicle,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.fillCustomer(ctx, b)

	slot, err := s.Slots.LookupSlot(ctx, svc.ID, date, tm)
	if err != nil {
		return nil, err
	}
	path := "slot"
	if slot == nil {
		offered, err := s.legacyOffered(ctx, svc, day, tm)
		if err != nil {
			return nil, err
		}
		if !offered {
			return nil, apperr.New(apperr.SlotUnavailable, "%s on %s is not available for this service", tm, date).
				With("date", date).With("time", tm)
		}
		path = "legacy"
		b.LegacyHoldKey = legacyHoldKey(svc.ID, date, tm)
	}

	if s.Payments != nil && s.Payments.Enabled() && req.PaymentMethodID != "" && svc.Price > 0 {
		intentID, err := s.Payments.Authorize(ctx, svc.Price, req.PaymentMethodID, b.ID)
		if err != nil {
			return nil, err
		}
		b.PaymentIntentID = intentID
	}

	if slot != nil {
		if _, err := s.Slots.Reserve(ctx, slot.ID, b.ID); err != nil {
			s.voidPayment(ctx, b)
			return nil, err
		}
		b.SlotID = slot.ID
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		s.rollback(ctx, b)
		if errors.Is(err, repository.ErrDuplicate) && b.LegacyHoldKey != "" {
			metrics.IncReservationConflict()
			return nil, apperr.New(apperr.SlotUnavailable, "this time was just taken, please pick another").
				With("date", date).With("time", tm)
		}
		utils.GetLogger().Error("Failed to persist booking",
			zap.String("bookingID", b.ID), zap.String("serviceID", svc.ID), zap.Error(err))
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncBookingCreated(path)
	utils.GetLogger().Info("Booking created",
		zap.String("bookingID", b.ID),
		zap.String("serviceID", svc.ID),
		zap.String("date", date),
		zap.String("time", tm),
		zap.String("path", path))
	s.Notifier.BookingCreated(ctx, b)
	return b, nil
}

// legacyOffered reports whether tm may be booked on a date with no slot at
// that time. A date that has any inventory never falls back to legacy times.
func (s *DefaultBookingService) legacyOffered(ctx context.Context, svc *models.Service, day time.Time, tm string) (bool, error) {
	_, hasInventory, err := s.Slots.DayInventory(ctx, svc.ID, day.Format(utils.DateLayout))
	if err != nil {
		return false, err
	}
	if hasInventory || !svc.OffersDay(day.Weekday()) {
		return false, nil
	}
	offered := false
	for _, t := range svc.AvailableTimes {
		if t == tm {
			offered = true
			break
		}
	}
	if !offered {
		return false, nil
	}

	active, err := s.Bookings.ListActiveByServiceAndDate(ctx, svc.ID, day.Format(utils.DateLayout))
	if err != nil {
		return false, fmt.Errorf("list bookings for %s: %w", svc.ID, err)
	}
	for i := range active {
		if active[i].Time == tm {
			return false, nil
		}
	}
	return true, nil
}

func (s *DefaultBookingService) rollback(ctx context.Context, b *models.Booking) {
	if b.SlotID != "" {
		if _, err := s.Slots.Release(ctx, b.SlotID, b.ID); err != nil {
			utils.GetLogger().Error("Failed to release slot after booking failure",
				zap.String("bookingID", b.ID), zap.String("slotID", b.SlotID), zap.Error(err))
		}
	}
	s.voidPayment(ctx, b)
}

func (s *DefaultBookingService) voidPayment(ctx context.Context, b *models.Booking) {
	if b.PaymentIntentID == "" {
		return
	}
	if err := s.Payments.Void(ctx, b.PaymentIntentID); err != nil {
		utils.GetLogger().Error("Failed to void payment",
			zap.String("bookingID", b.ID), zap.String("paymentIntentID", b.PaymentIntentID), zap.Error(err))
	}
}

// fillCustomer copies contact details from the customer's account when known.
func (s *DefaultBookingService) fillCustomer(ctx context.Context, b *models.Booking) {
	if s.Users == nil || b.CustomerID == "" {
		return
	}
	u, err := s.Users.GetByID(ctx, b.CustomerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			utils.GetLogger().Warn("Could not load customer", zap.String("customerID", b.CustomerID), zap.Error(err))
		}
		return
	}
	if b.CustomerEmail == "" {
		b.CustomerEmail = u.Email
	}
	if b.CustomerName == "" {
		b.CustomerName = u.Name
	}
}

func legacyHoldKey(serviceID, date, tm string) string {
	return serviceID + "|" + date + "|" + tm
}
