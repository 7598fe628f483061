package models

import "time"

// BookingStatus is the closed set of lifecycle states of a Booking.
type BookingStatus string

const (
	StatusPending                     BookingStatus = "Pending"
	StatusConfirmed                   BookingStatus = "Confirmed"
	StatusCompleted                   BookingStatus = "Completed"
	StatusCancelled                   BookingStatus = "Cancelled"
	StatusPendingVerification         BookingStatus = "Pending Verification"
	StatusPendingCustomerVerification BookingStatus = "Pending Customer Verification"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled,
		StatusPendingVerification, StatusPendingCustomerVerification:
		return true
	}
	return false
}

// Terminal reports whether no further status change is possible.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AwaitingVerification reports whether the booking waits on a customer token response.
func (s BookingStatus) AwaitingVerification() bool {
	return s == StatusPendingVerification || s == StatusPendingCustomerVerification
}

// Vehicle describes the car being serviced.
type Vehicle struct {
	Make  string `bson:"make,omitempty" json:"make,omitempty"`
	Model string `bson:"model,omitempty" json:"model,omitempty"`
	Year  string `bson:"year,omitempty" json:"year,omitempty"`
	Color string `bson:"color,omitempty" json:"color,omitempty"`
}

// Booking is a scheduled appointment. Bookings are never hard-deleted.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	ServiceID          string        `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	CustomServiceName  string        `bson:"customServiceName,omitempty" json:"customServiceName,omitempty"`
	CustomServicePrice float64       `bson:"customServicePrice,omitempty" json:"customServicePrice,omitempty"`
	CustomerID         string        `bson:"customerId,omitempty" json:"customerId,omitempty"`
	CustomerEmail      string        `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerName       string        `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Date               string        `bson:"date" json:"date"`
	Time               string        `bson:"time" json:"time"`
	Status             BookingStatus `bson:"status" json:"status"`
	Vehicle            Vehicle       `bson:"vehicle" json:"vehicle"`
	Notes              string        `bson:"notes,omitempty" json:"notes,omitempty"`
	ServiceStatus      string        `bson:"serviceStatus,omitempty" json:"serviceStatus,omitempty"`
	SlotID             string        `bson:"slotId,omitempty" json:"slotId,omitempty"`

	IsCustomService              bool       `bson:"isCustomService" json:"isCustomService"`
	CreatedByAdmin               bool       `bson:"createdByAdmin" json:"createdByAdmin"`
	RequiresCustomerVerification bool       `bson:"requiresCustomerVerification" json:"requiresCustomerVerification"`
	VerificationToken            string     `bson:"verificationToken,omitempty" json:"-"`
	VerificationExpiresAt        *time.Time `bson:"verificationExpiresAt,omitempty" json:"verificationExpiresAt,omitempty"`
	VerifiedAt                   *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`

	// LegacyHoldKey is set while an active booking holds a time on the legacy
	// (slot-less) path; a unique sparse index keeps it exclusive.
	LegacyHoldKey string `bson:"legacyHoldKey,omitempty" json:"-"`

	PaymentIntentID string    `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the booking belongs to the given customer.
func (b *Booking) OwnedBy(customerID string) bool {
	return customerID != "" && b.CustomerID == customerID
}

// CreateBookingRequest is the customer checkout payload for POST /bookings.
type CreateBookingRequest struct {
	ServiceID       string  `json:"serviceId" binding:"required"`
	Date            string  `json:"date" binding:"required"`
	Time            string  `json:"time" binding:"required"`
	Vehicle         Vehicle `json:"vehicle"`
	Notes           string  `json:"notes"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

// CustomBookingRequest is the admin payload for POST /bookings/custom.
type CustomBookingRequest struct {
	ServiceID          string  `json:"serviceId"`
	CustomServiceName  string  `json:"customServiceName"`
	CustomServicePrice float64 `json:"customServicePrice"`
	CustomerID         string  `json:"customerId"`
	CustomerEmail      string  `json:"customerEmail"`
	CustomerName       string  `json:"customerName"`
	Date               string  `json:"date" binding:"required"`
	Time               string  `json:"time" binding:"required"`
	Vehicle            Vehicle `json:"vehicle"`
	Notes              string  `json:"notes"`
	ExpiryDays         int     `json:"expiryDays"`
}

// BookingDetailsUpdate edits the mutable details of a Pending booking.
type BookingDetailsUpdate struct {
	Vehicle *Vehicle `json:"vehicle,omitempty"`
	Notes   *string  `json:"notes,omitempty"`
}

// StatusUpdateRequest is the admin payload for PATCH /bookings/:id/status.
type StatusUpdateRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// ServiceStatusRequest is the admin payload for PATCH /bookings/:id/service-status.
type ServiceStatusRequest struct {
	ServiceStatus string `json:"serviceStatus"`
}

// VerificationResponse is the customer payload for POST /bookings/verify-custom-booking/:token.
type VerificationResponse struct {
	Confirmed     *bool  `json:"confirmed" binding:"required"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

// AssignCustomerRequest is the admin payload for PATCH /bookings/:id/assign-customer.
type AssignCustomerRequest struct {
	CustomerID    string `json:"customerId"`
	CustomerEmail string `json:"customerEmail"`
}

// BookingFilter narrows admin booking listings.
type BookingFilter struct {
	CustomerID string
	ServiceID  string
	Status     BookingStatus
	DateRange  DateRange
}

// BookingPage is one page of a filtered booking listing.
type BookingPage struct {
	Bookings   []Booking `json:"bookings"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// CustomBookingResult is returned to the admin after creating a custom booking.
type CustomBookingResult struct {
	Booking           *Booking `json:"booking"`
	VerificationToken string   `json:"verificationToken"`
	VerificationLink  string   `json:"verificationLink,omitempty"`
}

// BookingPreview is the public view of a custom booking awaiting verification.
type BookingPreview struct {
	ID                    string        `json:"id"`
	ServiceName           string        `json:"serviceName"`
	Price                 float64       `json:"price"`
	Date                  string        `json:"date"`
	Time                  string        `json:"time"`
	Status                BookingStatus `json:"status"`
	Vehicle               Vehicle       `json:"vehicle"`
	Notes                 string        `json:"notes,omitempty"`
	CustomerName          string        `json:"customerName,omitempty"`
	VerificationExpiresAt *time.Time    `json:"verificationExpiresAt,omitempty"`
}
