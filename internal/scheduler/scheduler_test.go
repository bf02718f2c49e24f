package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stockcast/internal/models"
	"github.com/yourusername/stockcast/internal/service"
)

type noopRefresher struct{}

func (noopRefresher) Lookup(context.Context, string, string, time.Time) (models.SentimentScore, error) {
	return models.NeutralSentiment(), nil
}

func newTestScheduler() *Scheduler {
	return NewScheduler(service.NewIngestionService(nil, nil, nil), nil)
}

func TestScheduleBarSyncValidation(t *testing.T) {
	s := newTestScheduler()

	err := s.ScheduleBarSync("0 22 * * *", nil, "max")
	assert.Error(t, err, "empty symbol list should be rejected")

	err = s.ScheduleBarSync("not a cron expression", []string{"AAPL"}, "max")
	assert.Error(t, err)

	err = s.ScheduleBarSync("0 22 * * *", []string{"AAPL"}, "max")
	assert.NoError(t, err)
}

func TestScheduleNewsRefreshValidation(t *testing.T) {
	s := newTestScheduler()

	assert.Error(t, s.ScheduleNewsRefresh("0 23 * * *", nil, map[string]string{"AAPL": "Apple"}))
	assert.Error(t, s.ScheduleNewsRefresh("0 23 * * *", noopRefresher{}, nil))
	assert.NoError(t, s.ScheduleNewsRefresh("0 23 * * *", noopRefresher{}, map[string]string{"AAPL": "Apple"}))
}

func TestSchedulerStartStop(t *testing.T) {
	s := newTestScheduler()

	err := s.Start()
	assert.Error(t, err, "start without jobs should fail")

	require.NoError(t, s.ScheduleBarSync("0 22 * * *", []string{"AAPL", "MSFT"}, "max"))
	require.NoError(t, s.ScheduleLiveRefresh(300, []string{"AAPL"}))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(), "double start should fail")
	assert.False(t, s.GetNextRun().IsZero())
	assert.Len(t, s.Entries(), 2)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(), "stop when idle is a no-op")
}

func TestScheduleWhileRunningRejected(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.ScheduleBarSync("0 22 * * *", []string{"AAPL"}, "max"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.ScheduleBarSync("0 23 * * *", []string{"MSFT"}, "max"))
	assert.Error(t, s.ScheduleLiveRefresh(300, []string{"MSFT"}))
}
