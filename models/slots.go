package models

import "time"

// RecurringPattern is the step used to expand a recurring slot request.
type RecurringPattern string

const (
	RecurringNone    RecurringPattern = "none"
	RecurringDaily   RecurringPattern = "daily"
	RecurringWeekly  RecurringPattern = "weekly"
	RecurringMonthly RecurringPattern = "monthly"
)

// Valid reports whether p is one of the known patterns.
func (p RecurringPattern) Valid() bool {
	switch p {
	case RecurringNone, RecurringDaily, RecurringWeekly, RecurringMonthly:
		return true
	}
	return false
}

// TimeSlot is one bookable (service, date, time) appointment unit.
// IsBooked is true exactly when BookingID is non-empty.
type TimeSlot struct {
	ID               string           `bson:"id" json:"id"`
	ServiceID        string           `bson:"serviceId" json:"serviceId"`
	Date             string           `bson:"date" json:"date"` // "2006-01-02"
	Time             string           `bson:"time" json:"time"` // "15:04"
	IsAvailable      bool             `bson:"isAvailable" json:"isAvailable"`
	IsBooked         bool             `bson:"isBooked" json:"isBooked"`
	BookingID        string           `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	CreatedBy        string           `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	IsRecurring      bool             `bson:"isRecurring" json:"isRecurring"`
	RecurringPattern RecurringPattern `bson:"recurringPattern" json:"recurringPattern"`
	RecurringEndDate string           `bson:"recurringEndDate,omitempty" json:"recurringEndDate,omitempty"`
	Notes            string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// Bookable reports whether a customer may reserve the slot.
func (s *TimeSlot) Bookable() bool {
	return s.IsAvailable && !s.IsBooked
}

// DateRange is an inclusive range of "2006-01-02" dates; empty bounds are open.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// SlotFilter narrows admin slot listings. Nil pointers mean "any".
type SlotFilter struct {
	ServiceID   string
	DateRange   DateRange
	IsAvailable *bool
	IsBooked    *bool
}

// SlotPage is one page of a filtered slot listing.
type SlotPage struct {
	Slots      []TimeSlot `json:"slots"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// SlotStatistics summarises utilization over a slot population.
type SlotStatistics struct {
	TotalSlots       int64   `bson:"totalSlots" json:"totalSlots"`
	AvailableSlots   int64   `bson:"availableSlots" json:"availableSlots"`
	BookedSlots      int64   `bson:"bookedSlots" json:"bookedSlots"`
	UnavailableSlots int64   `bson:"unavailableSlots" json:"unavailableSlots"`
	UtilizationRate  float64 `bson:"-" json:"utilizationRate"`
}

// CreateSlotRequest is the admin payload for POST /timeslots.
type CreateSlotRequest struct {
	ServiceID        string           `json:"serviceId" binding:"required"`
	Date             string           `json:"date" binding:"required"`
	Time             string           `json:"time" binding:"required"`
	IsRecurring      bool             `json:"isRecurring"`
	RecurringPattern RecurringPattern `json:"recurringPattern"`
	RecurringEndDate string           `json:"recurringEndDate"`
	Notes            string           `json:"notes"`
}

// BulkCreateSlotsRequest is the admin payload for POST /timeslots/bulk.
type BulkCreateSlotsRequest struct {
	ServiceID string   `json:"serviceId" binding:"required"`
	Dates     []string `json:"dates" binding:"required"`
	Times     []string `json:"times" binding:"required"`
	Notes     string   `json:"notes"`
}

// BulkCreateResult reports per-item outcomes of a bulk create.
type BulkCreateResult struct {
	Created []TimeSlot `json:"created"`
	Errors  []string   `json:"errors"`
}

// UpdateSlotRequest is the admin payload for PUT /timeslots/:id.
type UpdateSlotRequest struct {
	IsAvailable *bool   `json:"isAvailable,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// BulkDeleteSlotsRequest is the admin payload for DELETE /timeslots/bulk.
type BulkDeleteSlotsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}
