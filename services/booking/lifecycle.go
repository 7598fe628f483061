package booking

import (
	"context"
	"errors"

	"mobilemech/database/repository"
	bookingRepo "mobilemech/database/repository/booking"
	"mobilemech/metrics"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"go.uber.org/zap"
)

// transitions lists the status changes reachable through UpdateStatus and
// CancelBooking. Verification statuses are resolved only by the token flow.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
}

// CanTransition reports whether from -> to is in the lifecycle table.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus is the admin status change.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, caller models.Identity, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	if !caller.IsAdmin {
		return nil, apperr.NewForbidden("only an admin can change booking status")
	}
	if !to.Valid() {
		return nil, apperr.NewValidation("unknown booking status %q", to)
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, to)
}

// CancelBooking cancels on behalf of the owner or an admin.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, caller models.Identity, bookingID string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && !b.OwnedBy(caller.UserID) {
		return nil, apperr.NewForbidden("you can only cancel your own bookings")
	}
	return s.transition(ctx, b, models.StatusCancelled)
}

// transition applies b.Status -> to as a compare-and-set on the status the
// caller observed, then settles the slot and payment.
func (s *DefaultBookingService) transition(ctx context.Context, b *models.Booking, to models.BookingStatus) (*models.Booking, error) {
	if !CanTransition(b.Status, to) {
		return nil, apperr.NewInvalidTransition(string(b.Status), string(to))
	}

	upd := bookingRepo.BookingUpdate{Status: &to}
	if to == models.StatusCancelled {
		upd.ClearLegacyHold = true
	}
	updated, err := s.Bookings.ConditionalUpdate(ctx, b.ID, []models.BookingStatus{b.Status}, upd)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Someone else moved it first; report against the fresh status.
			current, lerr := s.load(ctx, b.ID)
			if lerr != nil {
				return nil, lerr
			}
			return nil, apperr.NewInvalidTransition(string(current.Status), string(to))
		}
		return nil, s.storeErr(b.ID, err)
	}

	logger := utils.GetLogger()
	if to == models.StatusCancelled && updated.SlotID != "" {
		// The cancellation is already stored; a failed release leaves the slot
		// for an admin to free and is not reported to the caller.
		if _, err := s.Slots.Release(ctx, updated.SlotID, updated.ID); err != nil {
			logger.Error("Failed to release slot for cancelled booking",
				zap.String("bookingID", updated.ID), zap.String("slotID", updated.SlotID), zap.Error(err))
		}
	}
	s.settlePayment(ctx, updated)

	metrics.IncBookingTransition(string(to))
	logger.Info("Booking status changed",
		zap.String("bookingID", updated.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)))
	s.Notifier.StatusChanged(ctx, updated, b.Status)
	return updated, nil
}

// settlePayment captures the deposit on completion and voids it on cancellation.
func (s *DefaultBookingService) settlePayment(ctx context.Context, b *models.Booking) {
	if b.PaymentIntentID == "" || s.Payments == nil {
		return
	}
	var err error
	switch b.Status {
	case models.StatusCompleted:
		err = s.Payments.Capture(ctx, b.PaymentIntentID)
	case models.StatusCancelled:
		err = s.Payments.Void(ctx, b.PaymentIntentID)
	default:
		return
	}
	if err != nil {
		utils.GetLogger().Error("Failed to settle booking payment",
			zap.String("bookingID", b.ID), zap.String("status", string(b.Status)), zap.Error(err))
	}
}

// UpdateDetails edits vehicle and notes while the booking is still Pending.
func (s *DefaultBookingService) UpdateDetails(ctx context.Context, caller models.Identity, bookingID string, upd models.BookingDetailsUpdate) (*models.Booking, error) {
	if upd.Vehicle == nil && upd.Notes == nil {
		return nil, apperr.NewValidation("nothing to update; provide vehicle or notes")
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && !b.OwnedBy(caller.UserID) {
		return nil, apperr.NewForbidden("you can only edit your own bookings")
	}

	updated, err := s.Bookings.ConditionalUpdate(ctx, bookingID,
		[]models.BookingStatus{models.StatusPending},
		bookingRepo.BookingUpdate{Vehicle: upd.Vehicle, Notes: upd.Notes})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, s.frozenErr(ctx, bookingID, "booking details can only be edited while the booking is Pending")
		}
		return nil, s.storeErr(bookingID, err)
	}
	return updated, nil
}

// UpdateServiceStatus records the admin's free-text progress note.
func (s *DefaultBookingService) UpdateServiceStatus(ctx context.Context, caller models.Identity, bookingID, serviceStatus string) (*models.Booking, error) {
	if !caller.IsAdmin {
		return nil, apperr.NewForbidden("only an admin can update service progress")
	}
	updated, err := s.Bookings.ConditionalUpdate(ctx, bookingID,
		[]models.BookingStatus{models.StatusPending, models.StatusConfirmed},
		bookingRepo.BookingUpdate{ServiceStatus: &serviceStatus})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, s.frozenErr(ctx, bookingID, "service progress can only be updated while the booking is Pending or Confirmed")
		}
		return nil, s.storeErr(bookingID, err)
	}
	return updated, nil
}

func (s *DefaultBookingService) frozenErr(ctx context.Context, bookingID, msg string) error {
	current, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	return apperr.New(apperr.InvalidTransition, "%s", msg).With("currentStatus", string(current.Status))
}

func (s *DefaultBookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, s.storeErr(bookingID, err)
	}
	return b, nil
}

func (s *DefaultBookingService) storeErr(bookingID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NewBookingNotFound(bookingID)
	}
	return err
}
