package memory

import (
	"context"
	"sort"
	"time"

	"mobilemech/database/repository"
	bookingRepo "mobilemech/database/repository/booking"
	"mobilemech/models"
)

type bookingStore struct{ s *Store }

func (r *bookingStore) Create(_ context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[booking.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range r.s.bookings {
		if booking.LegacyHoldKey != "" && existing.LegacyHoldKey == booking.LegacyHoldKey {
			return repository.ErrDuplicate
		}
		if booking.VerificationToken != "" && existing.VerificationToken == booking.VerificationToken {
			return repository.ErrDuplicate
		}
	}
	r.s.bookings[booking.ID] = cloneBooking(*booking)
	return nil
}

func (r *bookingStore) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b = cloneBooking(b)
	return &b, nil
}

func (r *bookingStore) GetByVerificationToken(_ context.Context, token string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if token == "" {
		return nil, repository.ErrNotFound
	}
	for _, b := range r.s.bookings {
		if b.VerificationToken == token {
			b = cloneBooking(b)
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *bookingStore) ListActiveByServiceAndDate(_ context.Context, serviceID, date string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.ServiceID == serviceID && b.Date == date && b.Status != models.StatusCancelled {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *bookingStore) Find(_ context.Context, filter models.BookingFilter, page, limit int) ([]models.Booking, int64, error) {
	r.s.mu.Lock()
	matched := []models.Booking{}
	for _, b := range r.s.bookings {
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ServiceID != "" && b.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !inRange(b.Date, filter.DateRange) {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	r.s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		return matched[i].Time > matched[j].Time
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Booking{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *bookingStore) ConditionalUpdate(
	_ context.Context,
	bookingID string,
	whenStatus []models.BookingStatus,
	upd bookingRepo.BookingUpdate,
) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if len(whenStatus) > 0 && !statusIn(b.Status, whenStatus) {
		return nil, repository.ErrConflict
	}
	if upd.LegacyHoldKey != nil && *upd.LegacyHoldKey != "" {
		for id, existing := range r.s.bookings {
			if id != bookingID && existing.LegacyHoldKey == *upd.LegacyHoldKey {
				return nil, repository.ErrDuplicate
			}
		}
	}

	if upd.Status != nil {
		b.Status = *upd.Status
	}
	if upd.Vehicle != nil {
		b.Vehicle = *upd.Vehicle
	}
	if upd.Notes != nil {
		b.Notes = *upd.Notes
	}
	if upd.ServiceStatus != nil {
		b.ServiceStatus = *upd.ServiceStatus
	}
	if upd.SlotID != nil {
		b.SlotID = *upd.SlotID
	}
	if upd.CustomerID != nil {
		b.CustomerID = *upd.CustomerID
	}
	if upd.CustomerEmail != nil {
		b.CustomerEmail = *upd.CustomerEmail
	}
	if upd.CustomerName != nil {
		b.CustomerName = *upd.CustomerName
	}
	if upd.VerifiedAt != nil {
		t := *upd.VerifiedAt
		b.VerifiedAt = &t
	}
	if upd.LegacyHoldKey != nil {
		b.LegacyHoldKey = *upd.LegacyHoldKey
	}
	if upd.ClearLegacyHold {
		b.LegacyHoldKey = ""
	}
	b.UpdatedAt = time.Now().UTC()

	r.s.bookings[bookingID] = b
	out := cloneBooking(b)
	return &out, nil
}

func statusIn(status models.BookingStatus, set []models.BookingStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func cloneBooking(b models.Booking) models.Booking {
	if b.VerificationExpiresAt != nil {
		t := *b.VerificationExpiresAt
		b.VerificationExpiresAt = &t
	}
	if b.VerifiedAt != nil {
		t := *b.VerifiedAt
		b.VerifiedAt = &t
	}
	return b
}
