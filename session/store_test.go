package session

import (
	"sync"
	"testing"
	"time"

	"github.com/hungryfork/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateLazyCreation(t *testing.T) {
	s := NewStore()

	sess := s.GetOrCreate("s1")
	require.NotNil(t, sess)
	assert.Equal(t, "s1", sess.ID)
	assert.Equal(t, core.StageGreeting, sess.Stage())
	assert.Equal(t, 1, s.Len())

	// Same id returns the same session.
	again := s.GetOrCreate("s1")
	assert.Same(t, sess, again)
	assert.Equal(t, 1, s.Len())
}

func TestGetOrCreateRefreshesLastActive(t *testing.T) {
	s := NewStore()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	sess := s.GetOrCreate("s1")
	first := sess.LastActive

	clock = clock.Add(10 * time.Minute)
	s.GetOrCreate("s1")
	assert.True(t, sess.LastActive.After(first))
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	s := NewStore()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.lastSweep = clock

	s.GetOrCreate("stale")
	s.GetOrCreate("fresh")

	// "fresh" stays active; "stale" idles past the 2h retention window.
	clock = clock.Add(90 * time.Minute)
	s.GetOrCreate("fresh")
	clock = clock.Add(65 * time.Minute)

	// Next access triggers the sweep (over an hour since the last one).
	s.GetOrCreate("other")

	assert.False(t, s.Contains("stale"))
	assert.True(t, s.Contains("fresh"))
	assert.True(t, s.Contains("other"))
}

func TestSweepIsRateLimited(t *testing.T) {
	s := NewStore()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.lastSweep = clock

	s.GetOrCreate("stale")

	// Well past retention, but within the sweep interval: nothing removed.
	stale := s.sessions["stale"]
	stale.LastActive = clock.Add(-3 * time.Hour)
	clock = clock.Add(30 * time.Minute)
	s.GetOrCreate("other")
	assert.True(t, s.Contains("stale"))

	// Once the interval elapses the stale session goes away.
	clock = clock.Add(31 * time.Minute)
	s.GetOrCreate("other")
	assert.False(t, s.Contains("stale"))
}

func TestConcurrentStageWritesSameSession(t *testing.T) {
	// A double-send from the caller produces concurrent turns on one
	// session id; stage writes must be race-free (run with -race).
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		stage := core.StageActive
		if i%2 == 1 {
			stage = core.StageEnded
		}
		wg.Add(1)
		go func(st core.Stage) {
			defer wg.Done()
			s.SetStage("s1", st)
		}(stage)
	}
	wg.Wait()

	got := s.GetOrCreate("s1").Stage()
	assert.Contains(t, []core.Stage{core.StageActive, core.StageEnded}, got)
	assert.Equal(t, 1, s.Len())
}

func TestSetStageAndMergeContext(t *testing.T) {
	s := NewStore()

	s.SetStage("s1", core.StageActive)
	assert.Equal(t, core.StageActive, s.GetOrCreate("s1").Stage())

	s.MergeContext("s1", "budget_mentioned", 150)
	v, ok := s.GetOrCreate("s1").Context("budget_mentioned")
	require.True(t, ok)
	assert.Equal(t, 150, v)
}
