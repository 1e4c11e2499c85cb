package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/wagebook/internal/config"
)

type recordingSender struct {
	calls []time.Time
	err   error
}

func (r *recordingSender) SendWeeklyDigests(ctx context.Context, now time.Time) (int, error) {
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("digest run without deadline")
	}
	r.calls = append(r.calls, now)
	return 2, r.err
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(config.DigestConfig{CronSchedule: "every friday"}, nil, &recordingSender{}, nil)
	assert.Error(t, err)
}

func TestSendWeeklyDigest(t *testing.T) {
	sender := &recordingSender{}
	s, err := NewScheduler(config.DigestConfig{CronSchedule: "0 20 * * 5"}, time.UTC, sender, nil)
	require.NoError(t, err)

	now := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.sendWeeklyDigest()
	require.Len(t, sender.calls, 1)
	assert.Equal(t, now, sender.calls[0])

	sender.err = errors.New("whatsapp down")
	assert.NotPanics(t, s.sendWeeklyDigest)
	assert.Len(t, sender.calls, 2)
}

func TestSchedulerNextRun(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s, err := NewScheduler(config.DigestConfig{CronSchedule: "0 20 * * 5"}, loc, &recordingSender{}, nil)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	next := s.Next()
	require.False(t, next.IsZero())
	next = next.In(loc)
	assert.Equal(t, time.Friday, next.Weekday())
	assert.Equal(t, 20, next.Hour())
}
