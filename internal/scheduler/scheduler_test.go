package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yellowpill/soulfeed/internal/config"
	"github.com/yellowpill/soulfeed/internal/orchestrator"
)

type fakeSchedStore struct {
	users      []string
	usersErr   error
	postsToday map[string]int64
}

func (f *fakeSchedStore) ListOnboardedUsers(_ context.Context) ([]string, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeSchedStore) CountPostsToday(_ context.Context, userID string) (int64, error) {
	return f.postsToday[userID], nil
}

type fakeRunner struct {
	calls  []string
	errFor map[string]error
}

func (f *fakeRunner) RunBatch(_ context.Context, userID string, target int) (*orchestrator.BatchResult, error) {
	f.calls = append(f.calls, userID)
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	return &orchestrator.BatchResult{Generated: target}, nil
}

func testSchedConfig() *config.Config {
	return &config.Config{
		GenerateInterval: time.Hour,
		PostsPerBatch:    5,
		MaxBatchesPerDay: 2,
	}
}

func TestRunGenerateCycle(t *testing.T) {
	t.Run("runs a batch per eligible user", func(t *testing.T) {
		store := &fakeSchedStore{users: []string{"a", "b"}}
		runner := &fakeRunner{}
		s := New(Config{Cfg: testSchedConfig(), Store: store, Runner: runner})

		s.runGenerateCycle(context.Background())
		assert.Equal(t, []string{"a", "b"}, runner.calls)
		assert.True(t, s.Health().Healthy())
	})

	t.Run("skips users at the daily cap", func(t *testing.T) {
		store := &fakeSchedStore{
			users:      []string{"a", "b"},
			postsToday: map[string]int64{"a": 10}, // 2 batches * 5 posts
		}
		runner := &fakeRunner{}
		s := New(Config{Cfg: testSchedConfig(), Store: store, Runner: runner})

		s.runGenerateCycle(context.Background())
		assert.Equal(t, []string{"b"}, runner.calls)
	})

	t.Run("continues past a failing user", func(t *testing.T) {
		store := &fakeSchedStore{users: []string{"a", "b"}}
		runner := &fakeRunner{errFor: map[string]error{"a": errors.New("backend down")}}
		s := New(Config{Cfg: testSchedConfig(), Store: store, Runner: runner})

		s.runGenerateCycle(context.Background())
		assert.Equal(t, []string{"a", "b"}, runner.calls)
	})

	t.Run("user list failure aborts the cycle", func(t *testing.T) {
		store := &fakeSchedStore{usersErr: errors.New("db gone")}
		runner := &fakeRunner{}
		s := New(Config{Cfg: testSchedConfig(), Store: store, Runner: runner})

		s.runGenerateCycle(context.Background())
		assert.Empty(t, runner.calls)
		assert.False(t, s.Health().Healthy())
	})
}

func TestHealth_SetHealthy(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("generation")

	status := h.Snapshot()["generation"]
	assert.True(t, status.Healthy)
	assert.Nil(t, status.Err)
	assert.WithinDuration(t, time.Now(), status.LastCheck, time.Second)
	assert.WithinDuration(t, time.Now(), status.LastSuccess, time.Second)
}

func TestHealth_SetUnhealthyKeepsLastSuccess(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("generation")
	lastSuccess := h.Snapshot()["generation"].LastSuccess
	h.SetUnhealthy("generation", assert.AnError)

	status := h.Snapshot()["generation"]
	assert.False(t, status.Healthy)
	assert.Equal(t, assert.AnError, status.Err)
	assert.Equal(t, lastSuccess, status.LastSuccess)
}

func TestHealth_Snapshot(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("generation")
	h.SetUnhealthy("store", assert.AnError)

	statuses := h.Snapshot()
	assert.Len(t, statuses, 2)
	assert.True(t, statuses["generation"].Healthy)
	assert.False(t, statuses["store"].Healthy)
}

func TestHealth_Healthy(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("generation")
		h.SetHealthy("store")

		assert.True(t, h.Healthy())
	})

	t.Run("one unhealthy", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("generation")
		h.SetUnhealthy("store", assert.AnError)

		assert.False(t, h.Healthy())
	})

	t.Run("empty", func(t *testing.T) {
		h := NewHealth()
		assert.True(t, h.Healthy())
	})
}
