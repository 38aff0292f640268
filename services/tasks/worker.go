package tasks

import (
	"context"
	"encoding/json"

	"museumchat/models"
	"museumchat/services/ticket"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitTicketWorker runs the ticket-issuance worker in the background. A
// failed render is retried by asynq and never touches the chat flow.
func InitTicketWorker(opt asynq.RedisClientOpt, gen ticket.Generator, dir string, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTicketGenerate, handleTicketGenerateTask(gen, dir, logger))

	go func() {
		logger.Info("starting ticket worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("ticket worker stopped", zap.Error(err))
		}
	}()
	return srv
}

func handleTicketGenerateTask(gen ticket.Generator, dir string, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var data models.TicketData
		if err := json.Unmarshal(task.Payload(), &data); err != nil {
			logger.Error("invalid ticket task payload", zap.Error(err))
			return err
		}

		path, err := gen.WriteFile(dir, data)
		if err != nil {
			logger.Error("failed to generate ticket",
				zap.String("booking_ref", data.BookingRef), zap.Error(err))
			return err
		}
		logger.Info("ticket generated",
			zap.String("booking_ref", data.BookingRef), zap.String("path", path))
		return nil
	}
}
