package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Lifecycle(t *testing.T) {
	var s Status
	assert.Equal(t, StateIdle, s.State)
	assert.False(t, s.Ready())

	s = s.Begin()
	assert.Equal(t, StateLoading, s.State)
	assert.False(t, s.Ready())

	ready := s.Finish(3, nil)
	assert.Equal(t, StateReady, ready.State)
	assert.Equal(t, "3 climbs loaded", ready.Message)
	assert.True(t, ready.Ready())

	failed := s.Finish(0, errors.New("bad file"))
	assert.Equal(t, StateError, failed.State)
	assert.Equal(t, "bad file", failed.Message)
	assert.False(t, failed.Ready())
}

func TestStatus_FinishRequiresLoading(t *testing.T) {
	var s Status
	assert.Equal(t, s, s.Finish(5, nil))

	ready := s.Begin().Finish(1, nil)
	assert.Equal(t, "1 climb loaded", ready.Message)
	assert.Equal(t, ready, ready.Finish(0, errors.New("late")))
}

func TestStatus_ReloadFromError(t *testing.T) {
	s := Status{}.Begin().Finish(0, errors.New("x"))
	s = s.Begin()
	assert.Equal(t, StateLoading, s.State)
}

func TestLoadState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", LoadState(42).String())
}
