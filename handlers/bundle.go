package handlers

import (
	"mobilemech/services/availability"
	"mobilemech/services/booking"
	"mobilemech/services/catalog"
	"mobilemech/services/timeslot"
)

// HandlerBundle groups the services every endpoint handler needs.
type HandlerBundle struct {
	Catalog      catalog.CatalogService
	Slots        timeslot.SlotService
	Availability availability.AvailabilityService
	Bookings     booking.BookingService
	Verification booking.VerificationService
}
