package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"tradesmarket/internal/professionals/service"
	"tradesmarket/platform/apperr"
	"tradesmarket/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	rescoreMaxRetry = 3
	rescoreTimeout  = 30 * time.Minute
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueRescore queues a manual rescore of one professional, or of all of
// them when professionalID is nil. It returns the task ID.
func (c *Client) EnqueueRescore(ctx context.Context, professionalID *uuid.UUID) (string, error) {
	return c.enqueueRescore(ctx, professionalID, service.ReasonManual)
}

func (c *Client) enqueueRescore(ctx context.Context, professionalID *uuid.UUID, reason string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("scheduler client not configured")
	}

	payload := RescorePayload{Reason: reason}
	if professionalID != nil {
		payload.ProfessionalID = professionalID.String()
	}
	task, err := NewRescoreTask(payload)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(rescoreMaxRetry),
		asynq.Timeout(rescoreTimeout),
	)
	if err != nil {
		return "", apperr.Unavailable("rescore queue unavailable", err)
	}
	return info.ID, nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
