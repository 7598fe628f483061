package notification

import (
	"context"
	"fmt"
	"time"

	"mobilemech/models"
	"mobilemech/services/tasks"
	"mobilemech/utils"

	"go.uber.org/zap"
)

func (s *DefaultNotificationService) BookingCreated(ctx context.Context, b *models.Booking) {
	s.dispatch(ctx, b, models.EmailPayload{
		Type:    models.NotificationBookingCreated,
		Subject: "Your booking request was received",
		Body: fmt.Sprintf("We received your booking for %s at %s. We'll confirm it shortly.",
			b.Date, b.Time),
	})
}

func (s *DefaultNotificationService) StatusChanged(ctx context.Context, b *models.Booking, from models.BookingStatus) {
	typ := models.NotificationBookingStatusChanged
	if b.Status == models.StatusCancelled {
		typ = models.NotificationBookingCancelled
	}
	s.dispatch(ctx, b, models.EmailPayload{
		Type:    typ,
		Subject: fmt.Sprintf("Booking %s", b.Status),
		Body:    fmt.Sprintf("Your booking on %s at %s is now %s.", b.Date, b.Time, b.Status),
		Data:    map[string]string{"from": string(from), "to": string(b.Status)},
	})
}

func (s *DefaultNotificationService) VerificationRequested(ctx context.Context, b *models.Booking, link string) {
	expires := ""
	if b.VerificationExpiresAt != nil {
		expires = b.VerificationExpiresAt.Format(time.RFC1123)
	}
	s.dispatch(ctx, b, models.EmailPayload{
		Type:    models.NotificationVerificationRequest,
		Subject: "Please confirm your appointment",
		Body: fmt.Sprintf("An appointment was scheduled for you on %s at %s. Confirm or decline it here: %s (link expires %s).",
			b.Date, b.Time, link, expires),
		Data: map[string]string{"link": link},
	})
}

func (s *DefaultNotificationService) VerificationResolved(ctx context.Context, b *models.Booking, confirmed bool) {
	verdict := "declined"
	if confirmed {
		verdict = "confirmed"
	}
	s.dispatch(ctx, b, models.EmailPayload{
		Type:    models.NotificationVerificationResolved,
		Subject: fmt.Sprintf("Appointment %s", verdict),
		Body:    fmt.Sprintf("Thanks, your appointment on %s at %s has been %s.", b.Date, b.Time, verdict),
		Data:    map[string]string{"verdict": verdict},
	})
}

// dispatch fills in the recipient and sends or enqueues the email.
func (s *DefaultNotificationService) dispatch(ctx context.Context, b *models.Booking, p models.EmailPayload) {
	logger := utils.GetLogger()

	p.To = s.recipient(ctx, b)
	if p.To == "" {
		logger.Debug("No recipient for booking notification",
			zap.String("bookingID", b.ID), zap.String("type", p.Type))
		return
	}
	p.BookingID = b.ID
	p.CreatedAt = time.Now().UTC()

	if s.Queue == nil {
		if s.Mailer == nil {
			return
		}
		if err := s.Mailer.Send(ctx, p); err != nil {
			logger.Error("Failed to send booking email", zap.String("bookingID", b.ID), zap.String("type", p.Type), zap.Error(err))
		}
		return
	}

	task, opts, err := tasks.NewEmailTask(p)
	if err != nil {
		logger.Error("Failed to build email task", zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	if _, err := s.Queue.EnqueueContext(ctx, task, opts...); err != nil {
		logger.Error("Failed to enqueue booking email", zap.String("bookingID", b.ID), zap.String("type", p.Type), zap.Error(err))
	}
}

func (s *DefaultNotificationService) recipient(ctx context.Context, b *models.Booking) string {
	if b.CustomerEmail != "" {
		return b.CustomerEmail
	}
	if b.CustomerID == "" || s.Users == nil {
		return ""
	}
	u, err := s.Users.GetByID(ctx, b.CustomerID)
	if err != nil {
		utils.GetLogger().Warn("Could not resolve customer email", zap.String("customerID", b.CustomerID), zap.Error(err))
		return ""
	}
	return u.Email
}
