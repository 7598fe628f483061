package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"mobilemech/database/repository/memory"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/services/catalog"
	"mobilemech/services/timeslot"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	links  []string
}

func (n *recordingNotifier) record(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *models.Booking) {
	n.record("created:" + b.ID)
}

func (n *recordingNotifier) StatusChanged(_ context.Context, b *models.Booking, from models.BookingStatus) {
	n.record(string(from) + "->" + string(b.Status))
}

func (n *recordingNotifier) VerificationRequested(_ context.Context, b *models.Booking, link string) {
	n.mu.Lock()
	n.links = append(n.links, link)
	n.mu.Unlock()
	n.record("verification:" + b.ID)
}

func (n *recordingNotifier) VerificationResolved(_ context.Context, b *models.Booking, confirmed bool) {
	if confirmed {
		n.record("confirmed:" + b.ID)
		return
	}
	n.record("declined:" + b.ID)
}

var errPaymentDeclined = apperr.New(apperr.PaymentFailed, "card declined")

type fakePayments struct {
	mu       sync.Mutex
	declines bool
	captured []string
	voided   []string
}

func (p *fakePayments) Enabled() bool { return true }

func (p *fakePayments) Authorize(_ context.Context, _ float64, _, bookingID string) (string, error) {
	if p.declines {
		return "", errPaymentDeclined
	}
	return "pi_" + bookingID, nil
}

func (p *fakePayments) Capture(_ context.Context, intentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captured = append(p.captured, intentID)
	return nil
}

func (p *fakePayments) Void(_ context.Context, intentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voided = append(p.voided, intentID)
	return nil
}

type fixture struct {
	store    *memory.Store
	slots    *timeslot.DefaultSlotService
	svc      *DefaultBookingService
	notifier *recordingNotifier
	oil      *models.Service
	legacy   *models.Service
	now      time.Time
}

var (
	admin  = models.Identity{UserID: "admin-1", IsAdmin: true}
	alice  = models.Identity{UserID: "alice"}
	bob    = models.Identity{UserID: "bob"}
	friday = "2024-03-01"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	cat := &catalog.DefaultCatalogService{Repo: store.Services()}

	oil, err := cat.CreateService(ctx, models.Service{Name: "Oil Change", Price: 49.99, Duration: 45})
	require.NoError(t, err)
	legacy, err := cat.CreateService(ctx, models.Service{
		Name:           "Tire Rotation",
		Price:          30,
		AvailableDays:  []string{"Friday"},
		AvailableTimes: []string{"09:00", "13:00"},
	})
	require.NoError(t, err)

	for _, u := range []models.User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com"},
		{ID: "bob", Name: "Bob", Email: "bob@example.com"},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}

	f := &fixture{
		store:    store,
		notifier: &recordingNotifier{},
		oil:      oil,
		legacy:   legacy,
		now:      time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
	}
	f.slots = &timeslot.DefaultSlotService{Repo: store.TimeSlots(), Catalog: cat}
	f.svc = &DefaultBookingService{
		Bookings:      store.Bookings(),
		Users:         store.Users(),
		Slots:         f.slots,
		Catalog:       cat,
		Notifier:      f.notifier,
		PublicBaseURL: "https://book.example.com/",
		Clock:         func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) slot(t *testing.T, serviceID, date, tm string) *models.TimeSlot {
	t.Helper()
	created, err := f.slots.CreateSlot(context.Background(), models.CreateSlotRequest{ServiceID: serviceID, Date: date, Time: tm}, "admin-1")
	require.NoError(t, err)
	return &created[0]
}

func (f *fixture) book(t *testing.T, who models.Identity, serviceID, date, tm string) *models.Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), who, models.CreateBookingRequest{ServiceID: serviceID, Date: date, Time: tm})
	require.NoError(t, err)
	return b
}
