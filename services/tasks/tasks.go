package tasks

import (
	"context"
	"encoding/json"

	"museumchat/models"

	"github.com/hibiken/asynq"
)

const TypeTicketGenerate = "ticket:generate"

// NewTicketGenerateTask wraps a completed booking into a ticket-issuance
// task.
func NewTicketGenerateTask(data models.TicketData) (*asynq.Task, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTicketGenerate, b), nil
}

// Client enqueues ticket-issuance work. It implements chat.TicketQueue.
type Client struct {
	inner *asynq.Client
}

func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{inner: asynq.NewClient(opt)}
}

func (c *Client) EnqueueTicket(ctx context.Context, data models.TicketData) error {
	task, err := NewTicketGenerateTask(data)
	if err != nil {
		return err
	}
	_, err = c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	return err
}

func (c *Client) Close() error {
	return c.inner.Close()
}
