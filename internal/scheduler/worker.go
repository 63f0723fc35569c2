package scheduler

import (
	"context"
	"fmt"

	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/professionals/service"
	"tradesmarket/platform/config"
	"tradesmarket/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Rescorer recomputes stored trade scores.
type Rescorer interface {
	Rescore(ctx context.Context, id uuid.UUID, reason string) (repository.Professional, error)
	RescoreAll(ctx context.Context, reason string, batchSize int) (service.RescoreSummary, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	rescorer Rescorer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, rescorer Rescorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		rescorer: rescorer,
		log:      log,
	}

	mux.HandleFunc(TaskRescoreProfessionals, w.handleRescore)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRescorePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	target, err := payload.Target()
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	reason := payload.Reason
	if reason == "" {
		reason = service.ReasonManual
	}

	if target != nil {
		_, err := w.rescorer.Rescore(ctx, *target, reason)
		return err
	}

	summary, err := w.rescorer.RescoreAll(ctx, reason, 0)
	if err != nil {
		return err
	}
	w.log.Info("bulk rescore finished", "reason", reason, "rescored", summary.Rescored, "failed", summary.Failed)
	return nil
}
