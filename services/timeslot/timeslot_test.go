package timeslot

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"mobilemech/database/repository/memory"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*DefaultSlotService, string) {
	t.Helper()
	store := memory.NewStore()
	cat := &catalog.DefaultCatalogService{Repo: store.Services()}
	svc, err := cat.CreateService(context.Background(), models.Service{Name: "Oil Change", Price: 49.99, Duration: 45})
	require.NoError(t, err)
	return &DefaultSlotService{Repo: store.TimeSlots(), Catalog: cat}, svc.ID
}

func TestCreateSlotConcurrentDuplicates(t *testing.T) {
	s, serviceID := newTestService(t)
	req := models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "10:00"}

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateSlot(context.Background(), req, "admin")
		}(i)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.DuplicateSlot):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestCreateSlotValidation(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: "nope", Date: "2024-03-01", Time: "10:00"}, "admin")
	assert.True(t, apperr.Is(err, apperr.ServiceNotFound))

	_, err = s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-02-30", Time: "10:00"}, "admin")
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "25:00"}, "admin")
	assert.True(t, apperr.Is(err, apperr.Validation))

	created, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "9:00"}, "admin")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "09:00", created[0].Time)
	assert.True(t, created[0].IsAvailable)
	assert.False(t, created[0].IsBooked)
}

func TestReserveIsExclusiveAndKeepsInvariant(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	created, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "10:00"}, "admin")
	require.NoError(t, err)
	slotID := created[0].ID

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := []string{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bookingID := fmt.Sprintf("b-%d", i)
			if _, err := s.Reserve(ctx, slotID, bookingID); err == nil {
				mu.Lock()
				winners = append(winners, bookingID)
				mu.Unlock()
			} else {
				assert.True(t, apperr.Is(err, apperr.SlotUnavailable))
			}
		}(i)
	}
	wg.Wait()
	require.Len(t, winners, 1)

	slot, err := s.GetSlot(ctx, slotID)
	require.NoError(t, err)
	assert.True(t, slot.IsBooked)
	assert.Equal(t, winners[0], slot.BookingID)

	slot, err = s.Release(ctx, slotID, "")
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)
	assert.Empty(t, slot.BookingID)

	_, err = s.Release(ctx, slotID, "")
	assert.NoError(t, err)
}

func TestReserveDisabledSlot(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	created, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "10:00"}, "admin")
	require.NoError(t, err)

	_, err = s.SetAvailability(ctx, created[0].ID, false)
	require.NoError(t, err)

	_, err = s.Reserve(ctx, created[0].ID, "b-1")
	assert.True(t, apperr.Is(err, apperr.SlotUnavailable))

	_, err = s.Reserve(ctx, "missing", "b-1")
	assert.True(t, apperr.Is(err, apperr.SlotNotFound))
}

func TestSetAvailabilityKeepsBooking(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	created, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "10:00"}, "admin")
	require.NoError(t, err)
	_, err = s.Reserve(ctx, created[0].ID, "b-1")
	require.NoError(t, err)

	slot, err := s.SetAvailability(ctx, created[0].ID, false)
	require.NoError(t, err)
	assert.True(t, slot.IsBooked)
	assert.Equal(t, "b-1", slot.BookingID)
	assert.False(t, slot.IsAvailable)

	_, err = s.Release(ctx, created[0].ID, "b-1")
	require.NoError(t, err)
	_, err = s.Reserve(ctx, created[0].ID, "b-2")
	assert.True(t, apperr.Is(err, apperr.SlotUnavailable))
}

func TestCreateRecurringWeekly(t *testing.T) {
	s, serviceID := newTestService(t)

	created, err := s.CreateSlot(context.Background(), models.CreateSlotRequest{
		ServiceID:        serviceID,
		Date:             "2024-01-01",
		Time:             "09:00",
		IsRecurring:      true,
		RecurringPattern: models.RecurringWeekly,
		RecurringEndDate: "2024-01-22",
	}, "admin")
	require.NoError(t, err)

	dates := []string{}
	for _, slot := range created {
		dates = append(dates, slot.Date)
		assert.True(t, slot.IsRecurring)
		assert.Equal(t, models.RecurringWeekly, slot.RecurringPattern)
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}, dates)
}

func TestCreateRecurringSkipsExistingDates(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	_, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-01-02", Time: "09:00"}, "admin")
	require.NoError(t, err)

	created, err := s.CreateRecurringSlots(ctx, models.CreateSlotRequest{
		ServiceID:        serviceID,
		Date:             "2024-01-01",
		Time:             "09:00",
		RecurringPattern: models.RecurringDaily,
		RecurringEndDate: "2024-01-03",
	}, "admin")
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestCreateRecurringMonthlyAnchorsOnStart(t *testing.T) {
	s, serviceID := newTestService(t)

	created, err := s.CreateRecurringSlots(context.Background(), models.CreateSlotRequest{
		ServiceID:        serviceID,
		Date:             "2024-01-15",
		Time:             "09:00",
		RecurringPattern: models.RecurringMonthly,
		RecurringEndDate: "2024-04-15",
	}, "admin")
	require.NoError(t, err)
	require.Len(t, created, 4)
	assert.Equal(t, "2024-04-15", created[3].Date)
}

func TestCreateRecurringRejectsBadInput(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()

	cases := map[string]models.CreateSlotRequest{
		"missing end":  {ServiceID: serviceID, Date: "2024-01-01", Time: "09:00", RecurringPattern: models.RecurringDaily},
		"end first":    {ServiceID: serviceID, Date: "2024-01-10", Time: "09:00", RecurringPattern: models.RecurringDaily, RecurringEndDate: "2024-01-01"},
		"bad pattern":  {ServiceID: serviceID, Date: "2024-01-01", Time: "09:00", RecurringPattern: "hourly", RecurringEndDate: "2024-01-02"},
		"too many":     {ServiceID: serviceID, Date: "2024-01-01", Time: "09:00", RecurringPattern: models.RecurringDaily, RecurringEndDate: "2026-01-01"},
		"invalid time": {ServiceID: serviceID, Date: "2024-01-01", Time: "nine", RecurringPattern: models.RecurringDaily, RecurringEndDate: "2024-01-02"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateRecurringSlots(ctx, req, "admin")
			assert.True(t, apperr.Is(err, apperr.Validation), "got %v", err)
		})
	}
}

func TestCreateBulkSlotsReportsPerPairErrors(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	_, err := s.CreateSlot(ctx, models.CreateSlotRequest{ServiceID: serviceID, Date: "2024-03-01", Time: "09:00"}, "admin")
	require.NoError(t, err)

	result, err := s.CreateBulkSlots(ctx, models.BulkCreateSlotsRequest{
		ServiceID: serviceID,
		Dates:     []string{"2024-03-01", "2024-03-02"},
		Times:     []string{"09:00", "10:00", "bad"},
	}, "admin")
	require.NoError(t, err)
	assert.Len(t, result.Created, 3)
	assert.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "2024-03-01 09:00")

	_, err = s.CreateBulkSlots(ctx, models.BulkCreateSlotsRequest{ServiceID: serviceID, Dates: []string{"2024-03-01"}}, "admin")
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestDeleteSlotsNoPartialDelete(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	result, err := s.CreateBulkSlots(ctx, models.BulkCreateSlotsRequest{
		ServiceID: serviceID, Dates: []string{"2024-03-01"}, Times: []string{"09:00", "10:00", "11:00"},
	}, "admin")
	require.NoError(t, err)
	ids := []string{result.Created[0].ID, result.Created[1].ID, result.Created[2].ID}

	_, err = s.Reserve(ctx, ids[1], "b-1")
	require.NoError(t, err)

	_, err = s.DeleteSlots(ctx, ids)
	require.True(t, apperr.Is(err, apperr.SlotInUse))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{ids[1]}, ae.Details["slotIds"])

	page, err := s.FindWithFilters(ctx, models.SlotFilter{ServiceID: serviceID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	err = s.DeleteSlot(ctx, ids[1])
	assert.True(t, apperr.Is(err, apperr.SlotInUse))

	deleted, err := s.DeleteSlots(ctx, []string{ids[0], ids[2], ids[0]})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = s.DeleteSlots(ctx, nil)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestFindAvailableAndDayInventory(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	result, err := s.CreateBulkSlots(ctx, models.BulkCreateSlotsRequest{
		ServiceID: serviceID, Dates: []string{"2024-03-01"}, Times: []string{"11:00", "09:00", "10:00"},
	}, "admin")
	require.NoError(t, err)

	byTime := map[string]string{}
	for _, slot := range result.Created {
		byTime[slot.Time] = slot.ID
	}
	_, err = s.Reserve(ctx, byTime["10:00"], "b-1")
	require.NoError(t, err)
	_, err = s.SetAvailability(ctx, byTime["11:00"], false)
	require.NoError(t, err)

	times, err := s.FindAvailable(ctx, serviceID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, times)

	times, exists, err := s.DayInventory(ctx, serviceID, "2024-03-02")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, times)
}

func TestStatisticsUtilization(t *testing.T) {
	s, serviceID := newTestService(t)
	ctx := context.Background()
	result, err := s.CreateBulkSlots(ctx, models.BulkCreateSlotsRequest{
		ServiceID: serviceID, Dates: []string{"2024-03-01"}, Times: []string{"09:00", "10:00", "11:00"},
	}, "admin")
	require.NoError(t, err)
	_, err = s.Reserve(ctx, result.Created[0].ID, "b-1")
	require.NoError(t, err)

	stats, err := s.Statistics(ctx, models.SlotFilter{ServiceID: serviceID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalSlots)
	assert.EqualValues(t, 1, stats.BookedSlots)
	assert.EqualValues(t, 2, stats.AvailableSlots)
	assert.Equal(t, 33.33, stats.UtilizationRate)

	empty, err := s.Statistics(ctx, models.SlotFilter{ServiceID: "other"})
	require.NoError(t, err)
	assert.Zero(t, empty.UtilizationRate)
}

func TestUpdateSlotRequiresAField(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.UpdateSlot(context.Background(), "any", models.UpdateSlotRequest{})
	assert.True(t, apperr.Is(err, apperr.Validation))
}
