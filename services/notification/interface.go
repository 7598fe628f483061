package notification

import (
	"context"

	userRepo "mobilemech/database/repository/user"
	"mobilemech/models"

	"github.com/hibiken/asynq"
)

// NotificationService emails customers about booking events. Delivery is
// fire-and-forget: failures are logged and never returned to the caller.
type NotificationService interface {
	BookingCreated(ctx context.Context, b *models.Booking)
	StatusChanged(ctx context.Context, b *models.Booking, from models.BookingStatus)
	VerificationRequested(ctx context.Context, b *models.Booking, link string)
	VerificationResolved(ctx context.Context, b *models.Booking, confirmed bool)
}

// Enqueuer is the subset of *asynq.Client used to queue email tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DefaultNotificationService queues emails on Queue, or hands them to Mailer
// directly when no queue is configured.
type DefaultNotificationService struct {
	Queue  Enqueuer
	Mailer Mailer
	Users  userRepo.UserRepository
}
