package timeslot

import (
	"context"

	timeslotRepo "mobilemech/database/repository/timeslot"
	"mobilemech/models"
	"mobilemech/services/catalog"
)

// SlotService is the slot inventory plus the admin operations layered on it.
type SlotService interface {
	CreateSlot(ctx context.Context, req models.CreateSlotRequest, createdBy string) ([]models.TimeSlot, error)
	CreateRecurringSlots(ctx context.Context, req models.CreateSlotRequest, createdBy string) ([]models.TimeSlot, error)
	CreateBulkSlots(ctx context.Context, req models.BulkCreateSlotsRequest, createdBy string) (*models.BulkCreateResult, error)

	GetSlot(ctx context.Context, slotID string) (*models.TimeSlot, error)
	// LookupSlot returns nil without error when no slot exists for the key.
	LookupSlot(ctx context.Context, serviceID, date, tm string) (*models.TimeSlot, error)

	Reserve(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error)
	// Release frees the slot; a non-empty bookingID restricts it to that holder.
	Release(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error)

	SetAvailability(ctx context.Context, slotID string, isAvailable bool) (*models.TimeSlot, error)
	UpdateSlot(ctx context.Context, slotID string, req models.UpdateSlotRequest) (*models.TimeSlot, error)
	DeleteSlot(ctx context.Context, slotID string) error
	DeleteSlots(ctx context.Context, slotIDs []string) (int64, error)

	FindAvailable(ctx context.Context, serviceID, date string) ([]string, error)
	// DayInventory reports the bookable times and whether any slot exists at all.
	DayInventory(ctx context.Context, serviceID, date string) ([]string, bool, error)
	FindWithFilters(ctx context.Context, filter models.SlotFilter, page, limit int) (*models.SlotPage, error)
	Statistics(ctx context.Context, filter models.SlotFilter) (*models.SlotStatistics, error)
}

// DefaultSlotService implements SlotService.
type DefaultSlotService struct {
	Repo    timeslotRepo.TimeSlotRepository
	Catalog catalog.CatalogService
}
