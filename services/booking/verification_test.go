package booking

import (
	"context"
	"strings"
	"testing"

	"mobilemech/models"
	"mobilemech/services/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yes() *bool { v := true; return &v }
func no() *bool  { v := false; return &v }

func (f *fixture) custom(t *testing.T, req models.CustomBookingRequest) *models.CustomBookingResult {
	t.Helper()
	res, err := f.svc.CreatePendingVerification(context.Background(), admin, req)
	require.NoError(t, err)
	return res
}

func TestCreatePendingVerificationStatuses(t *testing.T) {
	f := newFixture(t)

	known := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerEmail: "Alice@Example.com", Date: friday, Time: "10:00"})
	assert.Equal(t, models.StatusPendingVerification, known.Booking.Status)
	assert.Equal(t, "alice", known.Booking.CustomerID)
	assert.True(t, known.Booking.CreatedByAdmin)
	assert.True(t, known.Booking.RequiresCustomerVerification)
	assert.Len(t, known.VerificationToken, 64)
	assert.Equal(t, "https://book.example.com/verify-booking/"+known.VerificationToken, known.VerificationLink)
	require.NotNil(t, known.Booking.VerificationExpiresAt)
	assert.Equal(t, f.now.AddDate(0, 0, 7), *known.Booking.VerificationExpiresAt)
	assert.Empty(t, known.Booking.SlotID)

	unknown := f.custom(t, models.CustomBookingRequest{
		CustomServiceName: "Windshield chip repair", CustomServicePrice: 120,
		CustomerEmail: "new@example.com", CustomerName: "Nia", Date: friday, Time: "11:00", ExpiryDays: 2,
	})
	assert.Equal(t, models.StatusPendingCustomerVerification, unknown.Booking.Status)
	assert.True(t, unknown.Booking.IsCustomService)
	assert.Empty(t, unknown.Booking.CustomerID)
	assert.Equal(t, f.now.AddDate(0, 0, 2), *unknown.Booking.VerificationExpiresAt)
	assert.NotEqual(t, known.VerificationToken, unknown.VerificationToken)
	assert.Len(t, f.notifier.links, 2)
}

func TestCreatePendingVerificationRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePendingVerification(ctx, alice, models.CustomBookingRequest{ServiceID: f.oil.ID, Date: friday, Time: "10:00"})
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = f.svc.CreatePendingVerification(ctx, admin, models.CustomBookingRequest{Date: friday, Time: "10:00"})
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = f.svc.CreatePendingVerification(ctx, admin, models.CustomBookingRequest{ServiceID: "nope", Date: friday, Time: "10:00"})
	assert.True(t, apperr.Is(err, apperr.ServiceNotFound))

	_, err = f.svc.CreatePendingVerification(ctx, admin, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerID: "ghost", Date: friday, Time: "10:00"})
	assert.True(t, apperr.Is(err, apperr.CustomerNotFound))
}

func TestPendingVerificationCannotBeCancelled(t *testing.T) {
	f := newFixture(t)
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerID: "alice", Date: friday, Time: "10:00"})

	_, err := f.svc.CancelBooking(context.Background(), admin, res.Booking.ID)
	assert.True(t, apperr.Is(err, apperr.InvalidTransition))
}

func TestPreviewShowsCatalogDetails(t *testing.T) {
	f := newFixture(t)
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerID: "alice", Date: friday, Time: "10:00"})

	preview, err := f.svc.Preview(context.Background(), res.VerificationToken)
	require.NoError(t, err)
	assert.Equal(t, "Oil Change", preview.ServiceName)
	assert.Equal(t, 49.99, preview.Price)
	assert.Equal(t, models.StatusPendingVerification, preview.Status)

	_, err = f.svc.Preview(context.Background(), "not-a-token")
	assert.True(t, apperr.Is(err, apperr.TokenNotFound))
}

func TestExpiredTokenLeavesBookingUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerID: "alice", Date: friday, Time: "10:00", ExpiryDays: 1})

	f.now = f.now.AddDate(0, 0, 2)

	_, err := f.svc.Preview(ctx, res.VerificationToken)
	require.True(t, apperr.Is(err, apperr.TokenExpired))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.NotEmpty(t, ae.Details["expiredAt"])

	_, err = f.svc.Resolve(ctx, alice, res.VerificationToken, models.VerificationResponse{Confirmed: yes()})
	assert.True(t, apperr.Is(err, apperr.TokenExpired))

	stored, err := f.svc.GetBooking(ctx, admin, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingVerification, stored.Status)
	assert.Nil(t, stored.VerifiedAt)
}

func TestConfirmReservesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, f.oil.ID, friday, "10:00")
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerID: "alice", Date: friday, Time: "10:00"})

	confirmed, err := f.svc.Resolve(ctx, alice, res.VerificationToken, models.VerificationResponse{Confirmed: yes()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, slot.ID, confirmed.SlotID)
	require.NotNil(t, confirmed.VerifiedAt)
	assert.Contains(t, f.notifier.events, "confirmed:"+confirmed.ID)

	held, err := f.slots.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, confirmed.ID, held.BookingID)

	_, err = f.svc.Resolve(ctx, alice, res.VerificationToken, models.VerificationResponse{Confirmed: no()})
	require.True(t, apperr.Is(err, apperr.AlreadyResolved))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, string(models.StatusConfirmed), ae.Details["currentStatus"])

	cancelled, err := f.svc.CancelBooking(ctx, alice, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	freed, err := f.slots.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, freed.IsBooked)
}

func TestConfirmFailsWhenSlotTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.slot(t, f.oil.ID, friday, "10:00")
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerID: "alice", Date: friday, Time: "10:00"})
	f.book(t, bob, f.oil.ID, friday, "10:00")

	_, err := f.svc.Resolve(ctx, alice, res.VerificationToken, models.VerificationResponse{Confirmed: yes()})
	assert.True(t, apperr.Is(err, apperr.SlotUnavailable))

	stored, err := f.svc.GetBooking(ctx, admin, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingVerification, stored.Status)

	declined, err := f.svc.Resolve(ctx, alice, res.VerificationToken, models.VerificationResponse{Confirmed: no()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, declined.Status)
}

func TestConfirmTakesLegacyHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	held := f.book(t, alice, f.legacy.ID, friday, "09:00")
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.legacy.ID, CustomerID: "bob", Date: friday, Time: "09:00"})

	_, err := f.svc.Resolve(ctx, bob, res.VerificationToken, models.VerificationResponse{Confirmed: yes()})
	assert.True(t, apperr.Is(err, apperr.SlotUnavailable))
	stored, err := f.svc.GetBooking(ctx, admin, res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingVerification, stored.Status)

	_, err = f.svc.CancelBooking(ctx, alice, held.ID)
	require.NoError(t, err)
	confirmed, err := f.svc.Resolve(ctx, bob, res.VerificationToken, models.VerificationResponse{Confirmed: yes()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	_, err = f.svc.CreateBooking(ctx, alice, models.CreateBookingRequest{ServiceID: f.legacy.ID, Date: friday, Time: "09:00"})
	assert.True(t, apperr.Is(err, apperr.SlotUnavailable))

	page, err := f.svc.ListBookings(ctx, admin, models.BookingFilter{
		ServiceID: f.legacy.ID, Status: models.StatusConfirmed, DateRange: models.DateRange{From: friday, To: friday},
	}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Bookings, 1)
}

func TestDeclineBindsUnknownCustomerDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.custom(t, models.CustomBookingRequest{CustomServiceName: "Detailing", Date: friday, Time: "15:00"})

	declined, err := f.svc.Resolve(ctx, models.Identity{}, res.VerificationToken, models.VerificationResponse{
		Confirmed: no(), CustomerName: "Bob", CustomerEmail: "bob@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, declined.Status)
	assert.Equal(t, "bob", declined.CustomerID)
	assert.Equal(t, "bob@example.com", declined.CustomerEmail)
	assert.Equal(t, "Bob", declined.CustomerName)

	_, err = f.svc.Resolve(ctx, models.Identity{}, res.VerificationToken, models.VerificationResponse{})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestAssignCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.custom(t, models.CustomBookingRequest{ServiceID: f.oil.ID, CustomerEmail: "walkin@example.com", Date: friday, Time: "10:00"})
	require.Equal(t, models.StatusPendingCustomerVerification, res.Booking.Status)

	_, err := f.svc.AssignCustomer(ctx, alice, res.Booking.ID, models.AssignCustomerRequest{CustomerID: "bob"})
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	_, err = f.svc.AssignCustomer(ctx, admin, res.Booking.ID, models.AssignCustomerRequest{CustomerID: "ghost"})
	assert.True(t, apperr.Is(err, apperr.CustomerNotFound))

	assigned, err := f.svc.AssignCustomer(ctx, admin, res.Booking.ID, models.AssignCustomerRequest{CustomerID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingVerification, assigned.Status)
	assert.Equal(t, "bob", assigned.CustomerID)
	assert.Equal(t, "bob@example.com", assigned.CustomerEmail)

	f.slot(t, f.oil.ID, friday, "10:00")
	regular := f.book(t, alice, f.oil.ID, friday, "10:00")
	_, err = f.svc.AssignCustomer(ctx, admin, regular.ID, models.AssignCustomerRequest{CustomerID: "bob"})
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestVerificationLinkTrimsSlash(t *testing.T) {
	f := newFixture(t)
	link := f.svc.verificationLink("abc")
	assert.False(t, strings.Contains(link, "//verify"))
}
