// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"mobilemech/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingUpdate is a partial update applied by ConditionalUpdate. Nil
// pointers leave the field untouched.
type BookingUpdate struct {
	Status          *models.BookingStatus
	Vehicle         *models.Vehicle
	Notes           *string
	ServiceStatus   *string
	SlotID          *string
	CustomerID      *string
	CustomerEmail   *string
	CustomerName    *string
	VerifiedAt      *time.Time
	LegacyHoldKey   *string
	ClearLegacyHold bool
}

// BookingRepository persists bookings. Status changes go through
// ConditionalUpdate so two concurrent transitions cannot both apply.
type BookingRepository interface {
	// Create inserts a booking; repository.ErrDuplicate if its legacy hold key is taken.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.Booking, error)
	// ListActiveByServiceAndDate returns every non-cancelled booking for the day.
	ListActiveByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.Booking, error)
	Find(ctx context.Context, filter models.BookingFilter, page, limit int) ([]models.Booking, int64, error)
	// ConditionalUpdate applies upd only while the booking's status is one of
	// whenStatus (any status when empty). repository.ErrConflict otherwise;
	// repository.ErrDuplicate if upd takes a legacy hold key already held.
	ConditionalUpdate(ctx context.Context, bookingID string, whenStatus []models.BookingStatus, upd BookingUpdate) (*models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
