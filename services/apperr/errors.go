// Package apperr defines the client-facing error taxonomy shared by the
// slot, booking and verification services.
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code identifies a class of client-facing failure.
type Code string

const (
	DuplicateSlot     Code = "DuplicateSlot"
	SlotUnavailable   Code = "SlotUnavailable"
	SlotInUse         Code = "SlotInUse"
	SlotNotFound      Code = "SlotNotFound"
	BookingNotFound   Code = "BookingNotFound"
	ServiceNotFound   Code = "ServiceNotFound"
	CustomerNotFound  Code = "CustomerNotFound"
	InvalidTransition Code = "InvalidTransition"
	TokenNotFound     Code = "TokenNotFound"
	TokenExpired      Code = "TokenExpired"
	AlreadyResolved   Code = "AlreadyResolved"
	Validation        Code = "Validation"
	Forbidden         Code = "Forbidden"
	PaymentFailed     Code = "PaymentFailed"
)

// Error is a typed failure carrying structured details for the client.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds an Error with no details.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// With returns a copy of e with an extra detail attached.
func (e *Error) With(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func NewDuplicateSlot(serviceID, date, tm string) *Error {
	return New(DuplicateSlot, "a time slot already exists for %s at %s", date, tm).
		With("serviceId", serviceID).With("date", date).With("time", tm)
}

func NewSlotUnavailable(slotID string) *Error {
	return New(SlotUnavailable, "this time was just taken, please pick another").With("slotId", slotID)
}

func NewSlotInUse(slotIDs ...string) *Error {
	return New(SlotInUse, "cannot delete booked time slots; cancel their bookings first").With("slotIds", slotIDs)
}

func NewSlotNotFound(slotID string) *Error {
	return New(SlotNotFound, "time slot %s not found", slotID).With("slotId", slotID)
}

func NewBookingNotFound(bookingID string) *Error {
	return New(BookingNotFound, "booking %s not found", bookingID).With("bookingId", bookingID)
}

func NewServiceNotFound(serviceID string) *Error {
	return New(ServiceNotFound, "service %s not found", serviceID).With("serviceId", serviceID)
}

func NewInvalidTransition(current, requested string) *Error {
	return New(InvalidTransition, "cannot change booking status from %q to %q", current, requested).
		With("currentStatus", current).With("requestedStatus", requested)
}

func NewValidation(format string, args ...any) *Error {
	return New(Validation, format, args...)
}

func NewCustomerNotFound(customerID string) *Error {
	return New(CustomerNotFound, "customer %s not found", customerID).With("customerId", customerID)
}

func NewTokenNotFound() *Error {
	return New(TokenNotFound, "verification link is invalid")
}

func NewTokenExpired(expiredAt time.Time) *Error {
	return New(TokenExpired, "verification link has expired").With("expiredAt", expiredAt.UTC().Format(time.RFC3339))
}

func NewAlreadyResolved(status string) *Error {
	return New(AlreadyResolved, "this booking has already been %s", strings.ToLower(status)).With("currentStatus", status)
}

func NewForbidden(format string, args ...any) *Error {
	return New(Forbidden, format, args...)
}
