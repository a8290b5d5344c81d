package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFiresOnInterval(t *testing.T) {
	s := NewManual()
	var syncs, snapshots int
	_, err := s.Every("sync", 5*time.Minute, func() { syncs++ })
	require.NoError(t, err)
	_, err = s.Every("snapshot", 24*time.Hour, func() { snapshots++ })
	require.NoError(t, err)

	fired := s.Advance(4 * time.Minute)
	assert.Empty(t, fired)

	fired = s.Advance(11 * time.Minute)
	assert.Equal(t, 3, fired["sync"])
	assert.Equal(t, 3, syncs)
	assert.Equal(t, 0, snapshots)

	fired = s.Advance(24 * time.Hour)
	assert.Equal(t, 1, fired["snapshot"])
	assert.Equal(t, 1, snapshots)
	assert.Equal(t, 3+288, syncs)
}

func TestManualCancelAndStop(t *testing.T) {
	s := NewManual()
	count := 0
	task, err := s.Every("sync", time.Second, func() { count++ })
	require.NoError(t, err)

	s.Advance(2 * time.Second)
	assert.Equal(t, 2, count)

	task.Cancel()
	task.Cancel()
	s.Advance(10 * time.Second)
	assert.Equal(t, 2, count)

	_, err = s.Every("other", time.Second, func() { count++ })
	require.NoError(t, err)
	s.Stop()
	s.Advance(10 * time.Second)
	assert.Equal(t, 2, count)
	assert.Empty(t, s.Pending())
}

func TestManualRecoversPanics(t *testing.T) {
	s := NewManual()
	calls := 0
	_, err := s.Every("flaky", time.Second, func() {
		calls++
		panic("boom")
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() { s.Advance(3 * time.Second) })
	assert.Equal(t, 3, calls)
}

func TestInvalidInterval(t *testing.T) {
	_, err := NewManual().Every("sync", 0, func() {})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	c := NewCron()
	defer c.Stop()
	_, err = c.Every("sync", -time.Second, func() {})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestCronRunsAndCancels(t *testing.T) {
	c := NewCron()
	defer c.Stop()

	var count atomic.Int32
	task, err := c.Every("sync", time.Second, func() { count.Add(1) })
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return count.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	task.Cancel()
	seen := count.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.LessOrEqual(t, count.Load(), seen+1)
}
