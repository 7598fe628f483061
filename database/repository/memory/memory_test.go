package memory

import (
	"context"
	"sync"
	"testing"

	"mobilemech/database/repository"
	bookingRepo "mobilemech/database/repository/booking"
	"mobilemech/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSlot(t *testing.T, s *Store, date, tm string) *models.TimeSlot {
	t.Helper()
	slot := &models.TimeSlot{ServiceID: "svc-1", Date: date, Time: tm, IsAvailable: true}
	require.NoError(t, s.TimeSlots().Create(context.Background(), slot))
	return slot
}

func TestSlotCreateRejectsDuplicateKey(t *testing.T) {
	s := NewStore()
	seedSlot(t, s, "2024-03-01", "10:00")

	err := s.TimeSlots().Create(context.Background(), &models.TimeSlot{ServiceID: "svc-1", Date: "2024-03-01", Time: "10:00"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestReserveIsExclusive(t *testing.T) {
	s := NewStore()
	slot := seedSlot(t, s, "2024-03-01", "10:00")
	repo := s.TimeSlots()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Reserve(context.Background(), slot.ID, "booking"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, repository.ErrConflict)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestReleaseRespectsHolderAndIsIdempotent(t *testing.T) {
	s := NewStore()
	slot := seedSlot(t, s, "2024-03-01", "10:00")
	repo := s.TimeSlots()
	ctx := context.Background()

	_, err := repo.Reserve(ctx, slot.ID, "b-1")
	require.NoError(t, err)

	got, err := repo.Release(ctx, slot.ID, "b-other")
	require.NoError(t, err)
	assert.True(t, got.IsBooked, "another booking's release must not free the slot")

	for i := 0; i < 2; i++ {
		got, err = repo.Release(ctx, slot.ID, "")
		require.NoError(t, err)
		assert.False(t, got.IsBooked)
		assert.Empty(t, got.BookingID)
	}
}

func TestDeleteManyUnbookedIsAllOrNothing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedSlot(t, s, "2024-03-01", "09:00")
	b := seedSlot(t, s, "2024-03-01", "10:00")
	c := seedSlot(t, s, "2024-03-01", "11:00")
	_, err := s.TimeSlots().Reserve(ctx, b.ID, "b-1")
	require.NoError(t, err)

	deleted, booked, err := s.TimeSlots().DeleteManyUnbooked(ctx, []string{a.ID, b.ID, c.ID})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Zero(t, deleted)
	assert.Equal(t, []string{b.ID}, booked)

	all, total, err := s.TimeSlots().Find(ctx, models.SlotFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
}

func TestBookingLegacyHoldKeyIsUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Bookings()

	first := &models.Booking{ID: "b-1", Status: models.StatusPending, LegacyHoldKey: "svc|2024-03-01|10:00"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Booking{ID: "b-2", Status: models.StatusPending, LegacyHoldKey: "svc|2024-03-01|10:00"}
	assert.ErrorIs(t, repo.Create(ctx, second), repository.ErrDuplicate)

	cancelled := models.StatusCancelled
	_, err := repo.ConditionalUpdate(ctx, "b-1", []models.BookingStatus{models.StatusPending},
		bookingRepo.BookingUpdate{Status: &cancelled, ClearLegacyHold: true})
	require.NoError(t, err)

	assert.NoError(t, repo.Create(ctx, second))

	hold := "svc|2024-03-01|10:00"
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b-3", Status: models.StatusPendingVerification}))
	confirmed := models.StatusConfirmed
	_, err = repo.ConditionalUpdate(ctx, "b-3", nil, bookingRepo.BookingUpdate{Status: &confirmed, LegacyHoldKey: &hold})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	stored, err := repo.GetByID(ctx, "b-3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingVerification, stored.Status)
	assert.Empty(t, stored.LegacyHoldKey)
}

func TestConditionalUpdateGuardsStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Bookings()
	require.NoError(t, repo.Create(ctx, &models.Booking{ID: "b-1", Status: models.StatusCompleted}))

	confirmed := models.StatusConfirmed
	_, err := repo.ConditionalUpdate(ctx, "b-1", []models.BookingStatus{models.StatusPending},
		bookingRepo.BookingUpdate{Status: &confirmed})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.ConditionalUpdate(ctx, "missing", nil, bookingRepo.BookingUpdate{Status: &confirmed})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStatisticsCountsFlagsIndependently(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedSlot(t, s, "2024-03-01", "09:00")
	booked := seedSlot(t, s, "2024-03-01", "10:00")
	disabled := seedSlot(t, s, "2024-03-02", "10:00")

	_, err := s.TimeSlots().Reserve(ctx, booked.ID, "b-1")
	require.NoError(t, err)
	off := false
	_, err = s.TimeSlots().UpdateAdminFields(ctx, disabled.ID, &off, nil)
	require.NoError(t, err)

	stats, err := s.TimeSlots().Statistics(ctx, models.SlotFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalSlots)
	assert.EqualValues(t, 1, stats.AvailableSlots)
	assert.EqualValues(t, 1, stats.BookedSlots)
	assert.EqualValues(t, 1, stats.UnavailableSlots)

	dayOne, err := s.TimeSlots().Statistics(ctx, models.SlotFilter{DateRange: models.DateRange{To: "2024-03-01"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, dayOne.TotalSlots)
}
