package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mobilemech/database/repository"
	bookingRepo "mobilemech/database/repository/booking"
	"mobilemech/metrics"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultExpiryDays = 7
	tokenBytes        = 32
)

var awaitingVerification = []models.BookingStatus{
	models.StatusPendingVerification,
	models.StatusPendingCustomerVerification,
}

// CreatePendingVerification books on a customer's behalf. The booking stays
// inert, holding no slot, until the customer confirms through the token link.
func (s *DefaultBookingService) CreatePendingVerification(ctx context.Context, caller models.Identity, req models.CustomBookingRequest) (*models.CustomBookingResult, error) {
	if !caller.IsAdmin {
		return nil, apperr.NewForbidden("only an admin can create custom bookings")
	}

	day, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}
	tm, err := utils.NormalizeTime(req.Time)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}

	now := s.now()
	b := &models.Booking{
		ID:                           uuid.New().String(),
		Date:                         day.Format(utils.DateLayout),
		Time:                         tm,
		Status:                       models.StatusPendingVerification,
		Vehicle:                      req.Vehicle,
		Notes:                        strings.TrimSpace(req.Notes),
		CreatedByAdmin:               true,
		RequiresCustomerVerification: true,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}

	switch {
	case req.ServiceID != "":
		svc, err := s.Catalog.GetService(ctx, req.ServiceID)
		if err != nil {
			return nil, err
		}
		b.ServiceID = svc.ID
		if name := strings.TrimSpace(req.CustomServiceName); name != "" {
			b.CustomServiceName = name
		}
		if req.CustomServicePrice > 0 {
			b.CustomServicePrice = req.CustomServicePrice
		}
	case strings.TrimSpace(req.CustomServiceName) != "":
		if req.CustomServicePrice < 0 {
			return nil, apperr.NewValidation("customServicePrice cannot be negative")
		}
		b.IsCustomService = true
		b.CustomServiceName = strings.TrimSpace(req.CustomServiceName)
		b.CustomServicePrice = req.CustomServicePrice
	default:
		return nil, apperr.NewValidation("either serviceId or customServiceName is required")
	}

	if err := s.bindCustomer(ctx, b, req.CustomerID, req.CustomerEmail); err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		b.CustomerName = name
	}
	if b.CustomerID == "" {
		b.Status = models.StatusPendingCustomerVerification
	}

	token, err := utils.RandomToken(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}
	days := req.ExpiryDays
	if days <= 0 {
		days = s.ExpiryDays
	}
	if days <= 0 {
		days = defaultExpiryDays
	}
	expires := now.AddDate(0, 0, days)
	b.VerificationToken = token
	b.VerificationExpiresAt = &expires

	if err := s.Bookings.Create(ctx, b); err != nil {
		utils.GetLogger().Error("Failed to persist custom booking", zap.String("bookingID", b.ID), zap.Error(err))
		return nil, fmt.Errorf("create custom booking: %w", err)
	}

	link := s.verificationLink(token)
	metrics.IncBookingCreated("custom")
	s.Notifier.VerificationRequested(ctx, b, link)

	return &models.CustomBookingResult{Booking: b, VerificationToken: token, VerificationLink: link}, nil
}

// Preview returns what the customer sees on the confirmation page.
func (s *DefaultBookingService) Preview(ctx context.Context, token string) (*models.BookingPreview, error) {
	b, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}

	preview := &models.BookingPreview{
		ID:                    b.ID,
		ServiceName:           b.CustomServiceName,
		Price:                 b.CustomServicePrice,
		Date:                  b.Date,
		Time:                  b.Time,
		Status:                b.Status,
		Vehicle:               b.Vehicle,
		Notes:                 b.Notes,
		CustomerName:          b.CustomerName,
		VerificationExpiresAt: b.VerificationExpiresAt,
	}
	if b.ServiceID != "" {
		svc, err := s.Catalog.GetService(ctx, b.ServiceID)
		if err != nil && !apperr.Is(err, apperr.ServiceNotFound) {
			return nil, err
		}
		if svc != nil {
			if preview.ServiceName == "" {
				preview.ServiceName = svc.Name
			}
			if preview.Price == 0 {
				preview.Price = svc.Price
			}
		}
	}
	return preview, nil
}

// Resolve applies the customer's answer. Confirming reserves the matching
// slot, or takes the legacy hold when the day has no slot rows, and fails
// with SlotUnavailable if the time was taken.
func (s *DefaultBookingService) Resolve(ctx context.Context, caller models.Identity, token string, resp models.VerificationResponse) (*models.Booking, error) {
	if resp.Confirmed == nil {
		return nil, apperr.NewValidation("confirmed is required")
	}
	b, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !b.Status.AwaitingVerification() {
		return nil, apperr.NewAlreadyResolved(string(b.Status))
	}

	now := s.now()
	upd := bookingRepo.BookingUpdate{VerifiedAt: &now}
	if name := strings.TrimSpace(resp.CustomerName); name != "" {
		upd.CustomerName = &name
	}
	if email := strings.ToLower(strings.TrimSpace(resp.CustomerEmail)); email != "" && b.CustomerEmail == "" {
		upd.CustomerEmail = &email
	}
	if b.CustomerID == "" {
		if id := s.customerFor(ctx, caller, resp.CustomerEmail); id != "" {
			upd.CustomerID = &id
		}
	}

	confirmed := *resp.Confirmed
	to := models.StatusCancelled
	var reservedSlot string
	if confirmed {
		to = models.StatusConfirmed
		if b.ServiceID != "" {
			slot, err := s.Slots.LookupSlot(ctx, b.ServiceID, b.Date, b.Time)
			if err != nil {
				return nil, err
			}
			if slot != nil {
				if _, err := s.Slots.Reserve(ctx, slot.ID, b.ID); err != nil {
					return nil, err
				}
				reservedSlot = slot.ID
				upd.SlotID = &reservedSlot
			} else {
				hold := legacyHoldKey(b.ServiceID, b.Date, b.Time)
				upd.LegacyHoldKey = &hold
			}
		}
	}
	upd.Status = &to

	updated, err := s.Bookings.ConditionalUpdate(ctx, b.ID, awaitingVerification, upd)
	if err != nil {
		if reservedSlot != "" {
			if _, rerr := s.Slots.Release(ctx, reservedSlot, b.ID); rerr != nil {
				utils.GetLogger().Error("Failed to release slot after verification conflict",
					zap.String("bookingID", b.ID), zap.String("slotID", reservedSlot), zap.Error(rerr))
			}
		}
		if errors.Is(err, repository.ErrConflict) {
			current, lerr := s.load(ctx, b.ID)
			if lerr != nil {
				return nil, lerr
			}
			return nil, apperr.NewAlreadyResolved(string(current.Status))
		}
		if errors.Is(err, repository.ErrDuplicate) && upd.LegacyHoldKey != nil {
			metrics.IncReservationConflict()
			return nil, apperr.New(apperr.SlotUnavailable, "%s on %s is already booked", b.Time, b.Date).
				With("date", b.Date).With("time", b.Time)
		}
		return nil, s.storeErr(b.ID, err)
	}

	metrics.IncBookingTransition(string(to))
	utils.GetLogger().Info("Custom booking resolved",
		zap.String("bookingID", updated.ID),
		zap.Bool("confirmed", confirmed),
		zap.String("slotID", reservedSlot))
	s.Notifier.VerificationResolved(ctx, updated, confirmed)
	return updated, nil
}

// AssignCustomer binds an admin-created booking to a registered customer.
// A booking that had no account moves on to Pending Verification.
func (s *DefaultBookingService) AssignCustomer(ctx context.Context, caller models.Identity, bookingID string, req models.AssignCustomerRequest) (*models.Booking, error) {
	if !caller.IsAdmin {
		return nil, apperr.NewForbidden("only an admin can assign customers")
	}
	if req.CustomerID == "" {
		return nil, apperr.NewValidation("customerId is required")
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.CreatedByAdmin {
		return nil, apperr.NewValidation("only admin-created bookings can be reassigned")
	}
	if b.Status.Terminal() {
		return nil, apperr.New(apperr.InvalidTransition, "cannot assign a customer to a %s booking", strings.ToLower(string(b.Status))).
			With("currentStatus", string(b.Status))
	}

	u, err := s.Users.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NewCustomerNotFound(req.CustomerID)
		}
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if email == "" {
		email = u.Email
	}
	upd := bookingRepo.BookingUpdate{CustomerID: &u.ID, CustomerEmail: &email}
	if b.CustomerName == "" && u.Name != "" {
		upd.CustomerName = &u.Name
	}
	if b.Status == models.StatusPendingCustomerVerification {
		next := models.StatusPendingVerification
		upd.Status = &next
	}

	updated, err := s.Bookings.ConditionalUpdate(ctx, bookingID, []models.BookingStatus{b.Status}, upd)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, s.frozenErr(ctx, bookingID, "booking changed while assigning the customer; retry")
		}
		return nil, s.storeErr(bookingID, err)
	}
	utils.GetLogger().Info("Customer assigned to booking",
		zap.String("bookingID", bookingID), zap.String("customerID", u.ID))
	return updated, nil
}

// byToken loads the booking for a token and rejects expired links. Expiry
// is checked before resolution state.
func (s *DefaultBookingService) byToken(ctx context.Context, token string) (*models.Booking, error) {
	token = strings.TrimSpace(token)
	b, err := s.Bookings.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NewTokenNotFound()
		}
		return nil, err
	}
	if b.VerificationExpiresAt != nil && s.now().After(*b.VerificationExpiresAt) {
		return nil, apperr.NewTokenExpired(*b.VerificationExpiresAt)
	}
	return b, nil
}

// bindCustomer attaches an account by id, or by email when one matches.
func (s *DefaultBookingService) bindCustomer(ctx context.Context, b *models.Booking, customerID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	b.CustomerEmail = email

	if customerID != "" {
		u, err := s.Users.GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NewCustomerNotFound(customerID)
			}
			return err
		}
		b.CustomerID = u.ID
		b.CustomerName = u.Name
		if b.CustomerEmail == "" {
			b.CustomerEmail = u.Email
		}
		return nil
	}

	if email == "" {
		return nil
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	b.CustomerID = u.ID
	b.CustomerName = u.Name
	return nil
}

// customerFor picks the account a confirming customer should be bound to.
func (s *DefaultBookingService) customerFor(ctx context.Context, caller models.Identity, email string) string {
	if caller.UserID != "" && !caller.IsAdmin {
		return caller.UserID
	}
	email = strings.TrimSpace(email)
	if email == "" || s.Users == nil {
		return ""
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return ""
	}
	return u.ID
}

func (s *DefaultBookingService) verificationLink(token string) string {
	base := strings.TrimRight(s.PublicBaseURL, "/")
	return fmt.Sprintf("%s/verify-booking/%s", base, token)
}
