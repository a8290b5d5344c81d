package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledIsPassThrough(t *testing.T) {
	cb := New(&Config{Enabled: false})
	_, ok := cb.(*passThroughBreaker)
	assert.True(t, ok)

	cb = New(nil)
	_, ok = cb.(*passThroughBreaker)
	assert.True(t, ok)
	assert.False(t, cb.IsOpen())
}

func TestFailSafeExecute(t *testing.T) {
	cb := New(DefaultConfig("store"))

	calls := 0
	require.NoError(t, cb.Execute(func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)

	taskErr := errors.New("boom")
	err := cb.Execute(func() error { return taskErr })
	assert.ErrorIs(t, err, taskErr)
	assert.False(t, cb.IsOpen())
}

func TestFailSafeOpenRejectsCalls(t *testing.T) {
	cb := newFailSafe(DefaultConfig("store"))
	cb.cb.Open()

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
	assert.True(t, cb.IsOpen())
}
