package cron

import (
	"context"
	"time"

	"mobilemech/config"
	"mobilemech/services/notification"
	"mobilemech/services/tasks"
	"mobilemech/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection shared by the enqueuer and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitEmailWorker runs the email worker in the background and returns the
// server so the caller can shut it down.
func InitEmailWorker(mailer notification.Mailer) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendEmail, HandleEmailTask(mailer))

	go func() {
		logger.Info("Starting email worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Email worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Email worker gave up; notifications will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleEmailTask delivers one email:send task. A malformed payload is
// dropped rather than retried.
func HandleEmailTask(mailer notification.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		p, err := tasks.ParseEmailTask(task)
		if err != nil {
			logger.Error("Invalid email task payload", zap.Error(err))
			return asynq.SkipRetry
		}
		if err := mailer.Send(ctx, p); err != nil {
			logger.Warn("Email delivery failed",
				zap.String("to", p.To), zap.String("bookingID", p.BookingID), zap.Error(err))
			return err
		}
		logger.Debug("Email delivered", zap.String("to", p.To), zap.String("type", p.Type))
		return nil
	}
}
