package memory

import (
	"context"
	"sort"
	"time"

	"mobilemech/database/repository"
	"mobilemech/models"

	"github.com/google/uuid"
)

type slotRepo struct{ s *Store }

func (r *slotRepo) Create(_ context.Context, slot *models.TimeSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.slots {
		if existing.ServiceID == slot.ServiceID && existing.Date == slot.Date && existing.Time == slot.Time {
			return repository.ErrDuplicate
		}
	}
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	r.s.slots[slot.ID] = *slot
	return nil
}

func (r *slotRepo) GetByID(_ context.Context, slotID string) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func (r *slotRepo) FindByKey(_ context.Context, serviceID, date, tm string) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, slot := range r.s.slots {
		if slot.ServiceID == serviceID && slot.Date == date && slot.Time == tm {
			return &slot, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *slotRepo) ListByServiceAndDate(_ context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.TimeSlot
	for _, slot := range r.s.slots {
		if slot.ServiceID == serviceID && slot.Date == date {
			out = append(out, slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *slotRepo) Reserve(_ context.Context, slotID, bookingID string) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !slot.Bookable() {
		return nil, repository.ErrConflict
	}
	slot.IsBooked = true
	slot.BookingID = bookingID
	slot.UpdatedAt = time.Now().UTC()
	r.s.slots[slotID] = slot
	return &slot, nil
}

func (r *slotRepo) Release(_ context.Context, slotID, bookingID string) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !slot.IsBooked || (bookingID != "" && slot.BookingID != bookingID) {
		return &slot, nil
	}
	slot.IsBooked = false
	slot.BookingID = ""
	slot.UpdatedAt = time.Now().UTC()
	r.s.slots[slotID] = slot
	return &slot, nil
}

func (r *slotRepo) UpdateAdminFields(_ context.Context, slotID string, isAvailable *bool, notes *string) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if isAvailable != nil {
		slot.IsAvailable = *isAvailable
	}
	if notes != nil {
		slot.Notes = *notes
	}
	slot.UpdatedAt = time.Now().UTC()
	r.s.slots[slotID] = slot
	return &slot, nil
}

func (r *slotRepo) Delete(_ context.Context, slotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[slotID]
	if !ok {
		return repository.ErrNotFound
	}
	if slot.IsBooked {
		return repository.ErrConflict
	}
	delete(r.s.slots, slotID)
	return nil
}

func (r *slotRepo) DeleteManyUnbooked(_ context.Context, slotIDs []string) (int64, []string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var booked []string
	for _, id := range slotIDs {
		if slot, ok := r.s.slots[id]; ok && slot.IsBooked {
			booked = append(booked, id)
		}
	}
	if len(booked) > 0 {
		return 0, booked, repository.ErrConflict
	}

	var deleted int64
	for _, id := range slotIDs {
		if _, ok := r.s.slots[id]; ok {
			delete(r.s.slots, id)
			deleted++
		}
	}
	return deleted, nil, nil
}

func (r *slotRepo) Find(_ context.Context, filter models.SlotFilter, page, limit int) ([]models.TimeSlot, int64, error) {
	r.s.mu.Lock()
	matched := r.match(filter)
	r.s.mu.Unlock()

	sortSlots(matched)
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.TimeSlot{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *slotRepo) Statistics(_ context.Context, filter models.SlotFilter) (*models.SlotStatistics, error) {
	r.s.mu.Lock()
	matched := r.match(filter)
	r.s.mu.Unlock()

	stats := &models.SlotStatistics{TotalSlots: int64(len(matched))}
	for _, slot := range matched {
		if slot.IsBooked {
			stats.BookedSlots++
		}
		if !slot.IsAvailable {
			stats.UnavailableSlots++
		}
		if slot.Bookable() {
			stats.AvailableSlots++
		}
	}
	return stats, nil
}

// match must be called with the lock held.
func (r *slotRepo) match(filter models.SlotFilter) []models.TimeSlot {
	out := []models.TimeSlot{}
	for _, slot := range r.s.slots {
		if filter.ServiceID != "" && slot.ServiceID != filter.ServiceID {
			continue
		}
		if !inRange(slot.Date, filter.DateRange) {
			continue
		}
		if filter.IsAvailable != nil && slot.IsAvailable != *filter.IsAvailable {
			continue
		}
		if filter.IsBooked != nil && slot.IsBooked != *filter.IsBooked {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func sortSlots(slots []models.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})
}

// inRange compares "2006-01-02" strings, which order lexically.
func inRange(date string, dr models.DateRange) bool {
	if dr.From != "" && date < dr.From {
		return false
	}
	if dr.To != "" && date > dr.To {
		return false
	}
	return true
}
