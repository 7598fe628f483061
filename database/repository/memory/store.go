// Package memory provides mutex-guarded repositories that honor the same
// conditional-write contracts as the MongoDB implementations. It backs
// STORE_DRIVER=memory and the service tests.
package memory

import (
	"sync"

	bookingRepo "mobilemech/database/repository/booking"
	catalogRepo "mobilemech/database/repository/catalog"
	timeslotRepo "mobilemech/database/repository/timeslot"
	userRepo "mobilemech/database/repository/user"
	"mobilemech/models"
)

// Store holds every collection behind a single lock so multi-document
// checks (bulk delete, unique keys) are atomic.
type Store struct {
	mu       sync.Mutex
	slots    map[string]models.TimeSlot
	bookings map[string]models.Booking
	services map[string]models.Service
	users    map[string]models.User
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		slots:    make(map[string]models.TimeSlot),
		bookings: make(map[string]models.Booking),
		services: make(map[string]models.Service),
		users:    make(map[string]models.User),
	}
}

func (s *Store) TimeSlots() timeslotRepo.TimeSlotRepository { return &slotRepo{s} }
func (s *Store) Bookings() bookingRepo.BookingRepository    { return &bookingStore{s} }
func (s *Store) Services() catalogRepo.ServiceRepository    { return &serviceRepo{s} }
func (s *Store) Users() userRepo.UserRepository             { return &userStore{s} }
