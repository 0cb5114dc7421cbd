package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) PruneExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestRunOnce(t *testing.T) {
	pruner := &fakePruner{}
	now := time.Date(2021, 1, 8, 12, 0, 0, 0, time.UTC)
	s := NewService(pruner, 7*24*time.Hour, time.Hour)
	s.now = func() time.Time { return now }

	removed, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, now.Add(-7*24*time.Hour), pruner.cutoffs[0])
}

func TestRunOnce_Error(t *testing.T) {
	pruner := &fakePruner{err: errors.New("database is locked")}
	s := NewService(pruner, time.Hour, time.Hour)

	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	pruner := &fakePruner{}
	s := NewService(pruner, time.Hour, 10*time.Millisecond)

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return pruner.calls() >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	after := pruner.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, pruner.calls())

	// second stop is a no-op
	s.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	s := NewService(&fakePruner{}, time.Hour, 0)
	assert.Equal(t, time.Hour, s.cleanupInterval)
	s.Stop()
}
