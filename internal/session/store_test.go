package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportrium/assistant/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 8, 6, 12, 0, 0, 0, time.UTC)}
	return NewStore(30*time.Minute, WithClock(clock.Now)), clock
}

func TestGetMissingIsEmpty(t *testing.T) {
	s, _ := newTestStore()
	assert.Equal(t, State{}, s.Get("nobody"))
	assert.Equal(t, 0, s.Len())
}

func TestUpdateMergesAndRefreshesTTL(t *testing.T) {
	s, clock := newTestStore()

	s.Update("u1", func(st *State) { st.Search.City = "Lahore" })
	clock.Advance(20 * time.Minute)
	s.Update("u1", func(st *State) { st.Search.Sports = []string{"cricket"} })
	clock.Advance(20 * time.Minute)

	got := s.Get("u1")
	assert.Equal(t, "Lahore", got.Search.City)
	assert.Equal(t, "cricket", got.Search.Sport())
}

func TestExpiredEntryBehavesAsMissAndIsEvicted(t *testing.T) {
	s, clock := newTestStore()
	s.Update("u1", func(st *State) {
		st.Search.City = "Karachi"
		st.Distance = Distance{Active: true, Origin: "Saddar"}
	})
	require.Equal(t, 1, s.Len())

	clock.Advance(31 * time.Minute)

	assert.Equal(t, State{}, s.Get("u1"))
	assert.Equal(t, 0, s.Len())

	st := s.Update("u1", func(st *State) { st.LastIntent = models.IntentHistory })
	assert.Empty(t, st.Search.City, "stale slots must not resurface after expiry")
}

func TestSessionsAreIsolated(t *testing.T) {
	s, _ := newTestStore()
	s.Update("a", func(st *State) { st.Search.City = "Lahore" })
	s.Update("b", func(st *State) { st.Search.City = "Multan" })

	assert.Equal(t, "Lahore", s.Get("a").Search.City)
	assert.Equal(t, "Multan", s.Get("b").Search.City)
}

func TestEmptyIDIsNeverStored(t *testing.T) {
	s, _ := newTestStore()
	st := s.Update("", func(st *State) { st.Search.City = "Lahore" })
	assert.Equal(t, "Lahore", st.Search.City)
	assert.Equal(t, State{}, s.Get(""))
	assert.Equal(t, 0, s.Len())
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := newTestStore()
	s.Update("u1", func(st *State) {
		st.Search.Sports = []string{"cricket"}
		st.Drills.Cursor = map[string]int{"cricket": 1}
	})

	got := s.Get("u1")
	got.Search.Sports[0] = "tennis"
	got.Drills.Cursor["cricket"] = 9

	again := s.Get("u1")
	assert.Equal(t, "cricket", again.Search.Sports[0])
	assert.Equal(t, 1, again.Drills.Cursor["cricket"])
}

func TestConcurrentUpdatesSameSessionAreNotLost(t *testing.T) {
	s, _ := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("u1", func(st *State) {
				if st.Drills.Cursor == nil {
					st.Drills.Cursor = map[string]int{}
				}
				st.Drills.Cursor["football"]++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Get("u1").Drills.Cursor["football"])
}

func TestLockSerializesTurnsPerSession(t *testing.T) {
	s, _ := newTestStore()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock("u1")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, s.locks, "lock table must be cleaned up")
}

func TestLockDifferentSessionsDoNotBlock(t *testing.T) {
	s, _ := newTestStore()
	unlockA := s.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := s.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}
