package scheduler

import (
	"context"
	"time"

	"tradesmarket/internal/professionals/service"
	"tradesmarket/platform/logger"
)

const defaultRescoreInterval = 24 * time.Hour

// PeriodicRescore enqueues a full rescore on a fixed interval so scores
// computed under older weights or vocabularies converge.
type PeriodicRescore struct {
	client   *Client
	log      *logger.Logger
	interval time.Duration
}

func NewPeriodicRescore(client *Client, log *logger.Logger, interval time.Duration) *PeriodicRescore {
	if interval <= 0 {
		interval = defaultRescoreInterval
	}

	return &PeriodicRescore{
		client:   client,
		log:      log,
		interval: interval,
	}
}

func (p *PeriodicRescore) Run(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.enqueue(ctx)
		}
	}
}

func (p *PeriodicRescore) enqueue(ctx context.Context) {
	taskID, err := p.client.enqueueRescore(ctx, nil, service.ReasonScheduled)
	if err != nil {
		p.log.Warn("scheduled rescore enqueue failed", "error", err)
		return
	}
	p.log.Info("scheduled rescore enqueued", "taskId", taskID)
}
