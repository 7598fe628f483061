package booking

import (
	"context"
	"time"

	bookingRepo "mobilemech/database/repository/booking"
	userRepo "mobilemech/database/repository/user"
	"mobilemech/models"
	"mobilemech/services/catalog"
	"mobilemech/services/notification"
	"mobilemech/services/payment"
	"mobilemech/services/timeslot"
)

// BookingService drives the booking lifecycle. Every call takes the
// request-scoped caller identity explicitly.
type BookingService interface {
	CreateBooking(ctx context.Context, caller models.Identity, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, caller models.Identity, bookingID string) (*models.Booking, error)
	ListMyBookings(ctx context.Context, caller models.Identity, page, limit int) (*models.BookingPage, error)
	ListBookings(ctx context.Context, caller models.Identity, filter models.BookingFilter, page, limit int) (*models.BookingPage, error)

	UpdateStatus(ctx context.Context, caller models.Identity, bookingID string, to models.BookingStatus) (*models.Booking, error)
	CancelBooking(ctx context.Context, caller models.Identity, bookingID string) (*models.Booking, error)
	UpdateDetails(ctx context.Context, caller models.Identity, bookingID string, upd models.BookingDetailsUpdate) (*models.Booking, error)
	UpdateServiceStatus(ctx context.Context, caller models.Identity, bookingID, serviceStatus string) (*models.Booking, error)
}

// VerificationService handles admin-created bookings that wait for the
// customer to confirm through an emailed token link.
type VerificationService interface {
	CreatePendingVerification(ctx context.Context, caller models.Identity, req models.CustomBookingRequest) (*models.CustomBookingResult, error)
	Preview(ctx context.Context, token string) (*models.BookingPreview, error)
	Resolve(ctx context.Context, caller models.Identity, token string, resp models.VerificationResponse) (*models.Booking, error)
	AssignCustomer(ctx context.Context, caller models.Identity, bookingID string, req models.AssignCustomerRequest) (*models.Booking, error)
}

// DefaultBookingService implements BookingService and VerificationService.
type DefaultBookingService struct {
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Slots    timeslot.SlotService
	Catalog  catalog.CatalogService
	Payments payment.PaymentService
	Notifier notification.NotificationService

	// PublicBaseURL prefixes verification links sent to customers.
	PublicBaseURL string
	// ExpiryDays is the default verification window.
	ExpiryDays int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
