package tasks

import (
	"encoding/json"
	"time"

	"mobilemech/models"

	"github.com/hibiken/asynq"
)

const TypeSendEmail = "email:send"

func NewEmailTask(payload models.EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendEmail, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}

	return task, opts, nil
}

// ParseEmailTask decodes the payload of an email:send task.
func ParseEmailTask(task *asynq.Task) (models.EmailPayload, error) {
	var p models.EmailPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
