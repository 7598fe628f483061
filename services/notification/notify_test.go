package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mobilemech/database/repository/memory"
	"mobilemech/models"
	"mobilemech/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type fakeMailer struct {
	sent []models.EmailPayload
}

func (m *fakeMailer) Send(_ context.Context, p models.EmailPayload) error {
	m.sent = append(m.sent, p)
	return nil
}

func TestStatusChangedIsQueued(t *testing.T) {
	q := &fakeQueue{}
	n := &DefaultNotificationService{Queue: q}
	b := &models.Booking{ID: "b-1", CustomerEmail: "alice@example.com", Date: "2024-03-01", Time: "10:00", Status: models.StatusCancelled}

	n.StatusChanged(context.Background(), b, models.StatusPending)

	require.Len(t, q.tasks, 1)
	assert.Equal(t, tasks.TypeSendEmail, q.tasks[0].Type())
	p, err := tasks.ParseEmailTask(q.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, models.NotificationBookingCancelled, p.Type)
	assert.Equal(t, "alice@example.com", p.To)
	assert.Equal(t, "b-1", p.BookingID)
	assert.Equal(t, "Pending", p.Data["from"])
}

func TestMailerUsedWithoutQueue(t *testing.T) {
	mailer := &fakeMailer{}
	n := &DefaultNotificationService{Mailer: mailer}
	b := &models.Booking{ID: "b-2", CustomerEmail: "bob@example.com", Date: "2024-03-01", Time: "11:00"}

	n.VerificationRequested(context.Background(), b, "https://book.example.com/verify-booking/abc")

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, models.NotificationVerificationRequest, mailer.sent[0].Type)
	assert.Contains(t, mailer.sent[0].Body, "verify-booking/abc")
}

func TestRecipientFallsBackToAccount(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Users().Create(context.Background(), &models.User{ID: "carol", Email: "carol@example.com"}))
	mailer := &fakeMailer{}
	n := &DefaultNotificationService{Mailer: mailer, Users: store.Users()}

	n.BookingCreated(context.Background(), &models.Booking{ID: "b-3", CustomerID: "carol"})
	n.BookingCreated(context.Background(), &models.Booking{ID: "b-4"})

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "carol@example.com", mailer.sent[0].To)
}

func TestEnqueueFailureIsSwallowed(t *testing.T) {
	q := &fakeQueue{err: errors.New("redis down")}
	n := &DefaultNotificationService{Queue: q}

	assert.NotPanics(t, func() {
		n.VerificationResolved(context.Background(), &models.Booking{ID: "b-5", CustomerEmail: "x@example.com"}, true)
	})
	assert.Empty(t, q.tasks)
}

func TestNewMailerWithoutHostLogs(t *testing.T) {
	assert.IsType(t, LogMailer{}, NewMailer("", 587, "", "", "noreply@example.com"))
	assert.IsType(t, &SMTPMailer{}, NewMailer("smtp.example.com", 587, "u", "p", "noreply@example.com"))
}
