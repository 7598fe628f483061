package availability

import (
	"context"
	"testing"

	"mobilemech/database/repository/memory"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/services/catalog"
	"mobilemech/services/timeslot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memory.Store
	slots   *timeslot.DefaultSlotService
	avail   *DefaultAvailabilityService
	service *models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cat := &catalog.DefaultCatalogService{Repo: store.Services()}
	svc, err := cat.CreateService(context.Background(), models.Service{
		Name:           "Brake Inspection",
		Price:          80,
		AvailableDays:  []string{"Monday", "Friday"},
		AvailableTimes: []string{"09:00", "11:00", "14:00"},
	})
	require.NoError(t, err)
	slots := &timeslot.DefaultSlotService{Repo: store.TimeSlots(), Catalog: cat}
	return &fixture{
		store:   store,
		slots:   slots,
		avail:   &DefaultAvailabilityService{Catalog: cat, Slots: slots, Bookings: store.Bookings()},
		service: svc,
	}
}

func TestInventoryIsAuthoritativeWhenFullyBooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// 2024-03-01 is a Friday, so legacy times would otherwise apply.
	created, err := f.slots.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: f.service.ID, Date: "2024-03-01", Time: "10:00"}, "admin")
	require.NoError(t, err)
	_, err = f.slots.Reserve(ctx, created[0].ID, "b-1")
	require.NoError(t, err)

	times, source, err := f.avail.Resolve(ctx, f.service.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, SourceInventory, source)
	assert.Empty(t, times)
}

func TestInventoryListsBookableTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.slots.CreateBulkSlots(ctx, models.BulkCreateSlotsRequest{
		ServiceID: f.service.ID, Dates: []string{"2024-03-01"}, Times: []string{"13:00", "08:30"},
	}, "admin")
	require.NoError(t, err)

	times, err := f.avail.AvailableTimes(ctx, f.service.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:30", "13:00"}, times)
}

func TestLegacyFallbackExcludesActiveBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookings := f.store.Bookings()
	require.NoError(t, bookings.Create(ctx, &models.Booking{
		ID: "b-1", ServiceID: f.service.ID, Date: "2024-03-04", Time: "11:00", Status: models.StatusConfirmed,
	}))
	require.NoError(t, bookings.Create(ctx, &models.Booking{
		ID: "b-2", ServiceID: f.service.ID, Date: "2024-03-04", Time: "14:00", Status: models.StatusCancelled,
	}))

	times, source, err := f.avail.Resolve(ctx, f.service.ID, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, SourceLegacy, source)
	assert.Equal(t, []string{"09:00", "14:00"}, times)
}

func TestLegacyHonorsAvailableDays(t *testing.T) {
	f := newFixture(t)

	// 2024-03-05 is a Tuesday.
	times, source, err := f.avail.Resolve(context.Background(), f.service.ID, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, SourceLegacy, source)
	assert.Empty(t, times)
}

func TestResolveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.avail.Resolve(ctx, "missing", "2024-03-01")
	assert.True(t, apperr.Is(err, apperr.ServiceNotFound))

	_, _, err = f.avail.Resolve(ctx, f.service.ID, "03/01/2024")
	assert.True(t, apperr.Is(err, apperr.Validation))
}
