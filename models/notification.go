package models

import "time"

// Notification types carried on email tasks.
const (
	NotificationBookingCreated       = "booking_created"
	NotificationBookingStatusChanged = "booking_status_changed"
	NotificationBookingCancelled     = "booking_cancelled"
	NotificationVerificationRequest  = "custom_booking_verification"
	NotificationVerificationResolved = "custom_booking_resolved"
)

// EmailPayload is the serialized body of an email:send task.
type EmailPayload struct {
	Type      string            `json:"type"`
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	BookingID string            `json:"bookingId,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
