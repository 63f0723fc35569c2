package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/professionals/service"
	"tradesmarket/platform/apperr"
	"tradesmarket/platform/logger"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientEnqueuesRescoreTask(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "scores"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	id := uuid.New()
	taskID, err := client.EnqueueRescore(context.Background(), &id)
	require.NoError(t, err)
	assert.NotEmpty(t, taskID)

	pending, err := mr.List("asynq:{scores}:pending")
	require.NoError(t, err)
	assert.Equal(t, []string{taskID}, pending)

	taskID, err = client.EnqueueRescore(context.Background(), nil)
	require.NoError(t, err)
	pending, err = mr.List("asynq:{scores}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)
	assert.Contains(t, pending, taskID)
}

func TestClientReportsUnavailableQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "scores"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	mr.Close()

	_, err = client.EnqueueRescore(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(testSchedulerConfig{})
	assert.Error(t, err)
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@cache.internal:6380/2", false)
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
	assert.Nil(t, opt.TLSConfig)

	opt, err = redisClientOpt("rediss://cache.internal:6380", true)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	assert.True(t, opt.TLSConfig.InsecureSkipVerify)

	_, err = redisClientOpt("://nope", false)
	assert.Error(t, err)
}

type fakeRescorer struct {
	one    []uuid.UUID
	all    int
	reason string
	err    error
}

func (f *fakeRescorer) Rescore(_ context.Context, id uuid.UUID, reason string) (repository.Professional, error) {
	f.one = append(f.one, id)
	f.reason = reason
	return repository.Professional{ID: id}, f.err
}

func (f *fakeRescorer) RescoreAll(_ context.Context, reason string, _ int) (service.RescoreSummary, error) {
	f.all++
	f.reason = reason
	return service.RescoreSummary{Rescored: 3}, f.err
}

func TestHandleRescore(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		payload    RescorePayload
		wantOne    int
		wantAll    int
		wantReason string
	}{
		{"single professional", RescorePayload{ProfessionalID: id.String(), Reason: service.ReasonManual}, 1, 0, service.ReasonManual},
		{"everyone", RescorePayload{Reason: service.ReasonScheduled}, 0, 1, service.ReasonScheduled},
		{"missing reason", RescorePayload{}, 0, 1, service.ReasonManual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rescorer := &fakeRescorer{}
			w := &Worker{rescorer: rescorer, log: logger.NewNop()}
			task, err := NewRescoreTask(tt.payload)
			require.NoError(t, err)

			require.NoError(t, w.handleRescore(context.Background(), task))
			assert.Len(t, rescorer.one, tt.wantOne)
			assert.Equal(t, tt.wantAll, rescorer.all)
			assert.Equal(t, tt.wantReason, rescorer.reason)
		})
	}
}

func TestHandleRescoreBadPayloadSkipsRetry(t *testing.T) {
	w := &Worker{rescorer: &fakeRescorer{}, log: logger.NewNop()}

	err := w.handleRescore(context.Background(), asynq.NewTask(TaskRescoreProfessionals, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	task, err := NewRescoreTask(RescorePayload{ProfessionalID: "not-a-uuid"})
	require.NoError(t, err)
	err = w.handleRescore(context.Background(), task)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleRescorePropagatesFailure(t *testing.T) {
	boom := errors.New("db down")
	w := &Worker{rescorer: &fakeRescorer{err: boom}, log: logger.NewNop()}
	task, err := NewRescoreTask(RescorePayload{ProfessionalID: uuid.New().String()})
	require.NoError(t, err)

	assert.ErrorIs(t, w.handleRescore(context.Background(), task), boom)
}
