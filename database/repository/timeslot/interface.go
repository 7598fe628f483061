// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"

	"mobilemech/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// TimeSlotRepository persists the slot inventory. Every state change that
// matters for booking (reserve, release, delete) is a single conditional
// write so concurrent callers cannot overwrite each other.
type TimeSlotRepository interface {
	// Create inserts a slot; repository.ErrDuplicate if (serviceId, date, time) exists.
	Create(ctx context.Context, slot *models.TimeSlot) error
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	FindByKey(ctx context.Context, serviceID, date, tm string) (*models.TimeSlot, error)
	// ListByServiceAndDate returns every slot for the day, sorted by time.
	ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error)
	// Reserve books a bookable slot for bookingID; repository.ErrConflict otherwise.
	Reserve(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error)
	// Release frees the slot. With a non-empty bookingID only that booking's
	// hold is released. Releasing a free slot is not an error.
	Release(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error)
	UpdateAdminFields(ctx context.Context, slotID string, isAvailable *bool, notes *string) (*models.TimeSlot, error)
	// Delete removes an unbooked slot; repository.ErrConflict if booked.
	Delete(ctx context.Context, slotID string) error
	// DeleteManyUnbooked deletes all ids or none. When any id is booked it
	// returns those ids and deletes nothing.
	DeleteManyUnbooked(ctx context.Context, slotIDs []string) (int64, []string, error)
	Find(ctx context.Context, filter models.SlotFilter, page, limit int) ([]models.TimeSlot, int64, error)
	Statistics(ctx context.Context, filter models.SlotFilter) (*models.SlotStatistics, error)
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo(db *mongo.Database) TimeSlotRepository {
	return &mongoTimeSlotRepo{
		coll: db.Collection("timeslots"),
	}
}
