package assistant

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportrium/assistant/internal/canned"
	"github.com/sportrium/assistant/internal/catalog"
	"github.com/sportrium/assistant/internal/events"
	"github.com/sportrium/assistant/internal/fixtures"
	"github.com/sportrium/assistant/internal/intent"
	"github.com/sportrium/assistant/internal/language"
	"github.com/sportrium/assistant/internal/llm"
	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/models"
	"github.com/sportrium/assistant/internal/session"
)

const testCatalog = `
cities:
  Karachi: [karachi, khi]
  Lahore: [lahore, lhr]
  Islamabad: [islamabad, isb]
sports:
  football: [football, soccer]
  cricket: [cricket]
  basketball: [basketball]
  badminton: [badminton]
  tennis: [tennis]
`

// Wednesday noon.
var now = time.Date(2025, 8, 6, 12, 0, 0, 0, time.UTC)

type fakeEvents struct {
	mu      sync.Mutex
	queries []events.Query
	results []models.Fixture
}

func (f *fakeEvents) Upcoming(_ context.Context, q events.Query) ([]models.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.results, nil
}

func (f *fakeEvents) calls() []events.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Query(nil), f.queries...)
}

type countingClassifier struct {
	mu    sync.Mutex
	inner intent.Classifier
	n     int
}

func (c *countingClassifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func (c *countingClassifier) Classify(ctx context.Context, text string) (models.Intent, float64) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return c.inner.Classify(ctx, text)
}

type fakeCompleter struct{ reply string }

func (f fakeCompleter) Complete(context.Context, string, []models.Turn) (string, error) {
	if f.reply == "" {
		return "", errors.New("down")
	}
	return f.reply, nil
}

func (f fakeCompleter) Name() string { return "gemini" }

type harness struct {
	a          *Assistant
	events     *fakeEvents
	sessions   *session.Store
	classifier *countingClassifier
	metrics    *metrics.Collector
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	clock := func() time.Time { return now }
	ev := &fakeEvents{}
	store := session.NewStore(session.DefaultTTL, session.WithClock(clock))
	cls := &countingClassifier{inner: intent.NewRuleClassifier(nil)}
	m := metrics.NewCollector()

	h := &harness{events: ev, sessions: store, classifier: cls, metrics: m}
	h.a = New(Deps{
		Catalog:    catalog.NewStatic(c),
		Sessions:   store,
		Classifier: cls,
		Searcher:   fixtures.NewSearcher(ev, nil, fixtures.WithClock(clock)),
		Fallback: llm.NewFallback("system", time.Second, nil,
			llm.Guard(fakeCompleter{reply: "Main theek hoon!"}, llm.NewBreaker(3, time.Minute, clock))),
		Metrics: m,
		Now:     clock,
	})
	return h
}

func (h *harness) say(sid, text string) (string, string) {
	return h.a.Reply(context.Background(), sid, []models.Turn{{Role: models.RoleUser, Content: text}})
}

func TestFixtureSearchFallsBackToSuggested(t *testing.T) {
	h := newHarness(t)

	reply, prov := h.say("u1", "Lahore me kal basketball match hai?")

	assert.Equal(t, ProvMatches, prov)
	assert.Contains(t, reply, "Misaal ke taur par")
	assert.Contains(t, reply, "Lions vs Rangers")
	assert.Contains(t, reply, "Model Town Ground • 5:00 PM")

	calls := h.events.calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "Lahore", calls[0].City)
	assert.Equal(t, "basketball", calls[0].Sport)
	assert.Equal(t, time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC), calls[0].From)

	st := h.sessions.Get("u1")
	assert.Equal(t, "Lahore", st.Search.City)
	assert.Equal(t, []string{"basketball"}, st.Search.Sports)
	assert.Equal(t, models.IntentFindMatches, st.LastIntent)
	require.Len(t, st.Search.Results, 1)
}

func TestUncoveredPairStillShowsExamples(t *testing.T) {
	h := newHarness(t)

	reply, prov := h.say("u1", "Karachi cricket matches this weekend")

	assert.Equal(t, ProvMatches, prov)
	assert.True(t, strings.HasPrefix(reply, "No cricket matches found in Karachi (weekend)."), reply)
	assert.Contains(t, reply, "• Royals vs City • Lahore")
	assert.NotContains(t, reply, "suggested")
}

func TestGreetingBypassesEverything(t *testing.T) {
	h := newHarness(t)
	h.sessions.Update("u1", func(s *session.State) {
		s.Distance = session.Distance{Active: true, Origin: "Saddar"}
		s.LastIntent = models.IntentTraining
	})

	reply, prov := h.say("u1", "salam")

	assert.Equal(t, ProvGreeting, prov)
	assert.Contains(t, reply, "salam")
	assert.Zero(t, h.classifier.count())
	assert.Empty(t, h.events.calls())
}

func TestHealthGuardrailUsesRememberedSport(t *testing.T) {
	h := newHarness(t)
	h.sessions.Update("u1", func(s *session.State) { s.Search.Sports = []string{"cricket"} })

	reply, prov := h.say("u1", "knee pain se kya karun")

	assert.Equal(t, ProvHealth, prov)
	assert.LessOrEqual(t, strings.Count(reply, "• "), 3)
	assert.Contains(t, reply, canned.FirstPack("cricket")[0])
	assert.Zero(t, h.classifier.count())
}

func TestRepeatedSearchOffersToBroaden(t *testing.T) {
	h := newHarness(t)

	first, prov := h.say("u1", "Karachi football matches today")
	require.Equal(t, ProvMatches, prov)
	assert.Contains(t, first, "Falcons vs Kings")

	second, prov := h.say("u1", "Karachi football matches today")
	assert.Equal(t, ProvMatchesSuggest, prov)
	assert.NotEqual(t, first, second)
	assert.Equal(t, fixtures.Broaden(language.English), second)
}

func TestDrillPacksCycle(t *testing.T) {
	h := newHarness(t)
	packs := canned.PackCount("football")
	require.Equal(t, 3, packs)

	reply, prov := h.say("u1", "football drills")
	require.Equal(t, ProvTraining, prov)
	assert.Contains(t, reply, "set 1 of 3")

	prev := reply
	for i := 1; i <= packs; i++ {
		reply, prov = h.say("u1", "more")
		require.Equal(t, ProvTraining, prov)
		assert.NotEqual(t, prev, reply, "consecutive packs differ")
		prev = reply
	}
	assert.Contains(t, reply, "set 1 of 3", "wraps around")
	assert.Contains(t, reply, canned.TrainingDisclaimer(language.English))
}

func TestSportSwitchFollowUp(t *testing.T) {
	h := newHarness(t)

	_, prov := h.say("u1", "cricket history")
	require.Equal(t, ProvHistory, prov)

	reply, prov := h.say("u1", "tennis?")
	assert.Equal(t, ProvHistory, prov)
	assert.Equal(t, canned.History("tennis", language.English), reply)

	_, _ = h.say("u1", "football drills")
	reply, prov = h.say("u1", "for cricket")
	assert.Equal(t, ProvTraining, prov)
	assert.Contains(t, reply, "Cricket drills (set 1 of 3)")
}

func TestDistanceAcrossTwoTurns(t *testing.T) {
	h := newHarness(t)

	reply, prov := h.say("u1", "how far is it from Saddar")
	require.Equal(t, ProvDistance, prov)
	assert.NotContains(t, reply, "google.com/maps")
	assert.True(t, h.sessions.Get("u1").Distance.Active)

	reply, prov = h.say("u1", "Model Town Ground")
	require.Equal(t, ProvDistance, prov)

	i := strings.Index(reply, "https://")
	require.NotEqual(t, -1, i)
	u, err := url.Parse(strings.Fields(reply[i:])[0])
	require.NoError(t, err)
	assert.Equal(t, "Saddar", u.Query().Get("origin"))
	assert.Equal(t, "Model Town Ground", u.Query().Get("destination"))

	assert.Equal(t, session.Distance{}, h.sessions.Get("u1").Distance)
}

func TestDistanceUsesCachedVenue(t *testing.T) {
	h := newHarness(t)
	_, _ = h.say("u1", "Lahore me kal basketball match hai?")

	reply, prov := h.say("u1", "stadium kitni door hai?")
	require.Equal(t, ProvDistance, prov)
	assert.Contains(t, reply, "Model Town Ground")

	d := h.sessions.Get("u1").Distance
	assert.True(t, d.Active)
	assert.Empty(t, d.Origin)
	assert.Equal(t, "Model Town Ground", d.Destination)
}

func TestFixtureQuestionAbandonsDistanceFlow(t *testing.T) {
	h := newHarness(t)
	_, _ = h.say("u1", "directions please")
	require.True(t, h.sessions.Get("u1").Distance.Active)

	_, prov := h.say("u1", "Islamabad tennis matches")
	assert.Equal(t, ProvMatches, prov)
	assert.False(t, h.sessions.Get("u1").Distance.Active)
}

func TestOtherIntentAbandonsDistanceFlow(t *testing.T) {
	tests := []struct {
		text string
		prov string
	}{
		{"ticket price kya hai?", ProvTicketPrice},
		{"remind me about it", ProvReminder},
		{"cricket history", ProvHistory},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h := newHarness(t)
			_, _ = h.say("u1", "how far is the stadium")
			require.True(t, h.sessions.Get("u1").Distance.Active)

			reply, prov := h.say("u1", tt.text)
			assert.Equal(t, tt.prov, prov)
			assert.NotContains(t, reply, "Kahan jaana hai")
			assert.Equal(t, session.Distance{}, h.sessions.Get("u1").Distance)
		})
	}
}

func TestDateOnlyFollowUpNarrowsSearch(t *testing.T) {
	h := newHarness(t)
	_, _ = h.say("u1", "Lahore cricket matches")
	before := len(h.events.calls())

	_, prov := h.say("u1", "aur kal?")
	assert.Equal(t, ProvMatches, prov)

	calls := h.events.calls()[before:]
	require.NotEmpty(t, calls)
	assert.Equal(t, time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC), calls[0].From)
	assert.Equal(t, "cricket", calls[0].Sport)
}

func TestLowConfidenceAsksForSlotsThenSearches(t *testing.T) {
	h := newHarness(t)

	reply, prov := h.say("u1", "kuch batao yaar")
	assert.Equal(t, ProvClarify, prov)
	assert.Contains(t, reply, "City bata dein")

	reply, prov = h.say("u1", "Lahore")
	assert.Equal(t, ProvMatches, prov)
	assert.Contains(t, reply, "Lahore")
}

func TestLowConfidenceWithSlotsEnumeratesCategories(t *testing.T) {
	h := newHarness(t)
	h.sessions.Update("u1", func(s *session.State) {
		s.Search.City = "Lahore"
		s.Search.Sports = []string{"cricket"}
	})

	reply, prov := h.say("u1", "hmm okay")
	assert.Equal(t, ProvClarify, prov)
	assert.Equal(t, canned.Clarify(language.English), reply)
}

func TestCannedBranches(t *testing.T) {
	tests := []struct {
		text string
		prov string
	}{
		{"ticket price kya hai", ProvTicketPrice},
		{"ye website kis kaam ki hai", ProvPurpose},
		{"how to use this app", ProvHowTo},
		{"remind me please", ProvReminder},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, prov := newHarness(t).say("u1", tt.text)
			assert.Equal(t, tt.prov, prov)
		})
	}
}

func TestChitchatGoesToGenerativeFallback(t *testing.T) {
	h := newHarness(t)
	reply, prov := h.say("u1", "hello, how is your day going")
	assert.Equal(t, "gemini", prov)
	assert.Equal(t, "Main theek hoon!", reply)

	snap := h.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Provenance["gemini"])
	require.NotNil(t, snap.ChatTurn)
}

func TestSlotsCollectedFromEarlierTurns(t *testing.T) {
	h := newHarness(t)
	transcript := []models.Turn{
		{Role: models.RoleUser, Content: "Islamabad me badminton"},
		{Role: models.RoleAssistant, Content: "Kis din?"},
		{Role: models.RoleUser, Content: "koi match hai today?"},
	}
	_, prov := h.a.Reply(context.Background(), "u1", transcript)
	require.Equal(t, ProvMatches, prov)

	calls := h.events.calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "Islamabad", calls[0].City)
	assert.Equal(t, "badminton", calls[0].Sport)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	_, _ = h.say("a", "football drills")

	_, prov := h.say("b", "more")
	assert.NotEqual(t, ProvTraining, prov)
}

func TestConcurrentTurnsOnOneSessionAreSerialized(t *testing.T) {
	h := newHarness(t)
	_, _ = h.say("u1", "football drills")

	const n = 5
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.say("u1", "more")
		}()
	}
	wg.Wait()

	assert.Equal(t, n%canned.PackCount("football"), h.sessions.Get("u1").Drills.Cursor["football"])
}

func TestNewDefaultsOptionalDeps(t *testing.T) {
	a := New(Deps{Searcher: fixtures.NewSearcher(&fakeEvents{}, nil)})

	reply, prov := a.Reply(context.Background(), "u1", []models.Turn{{Role: models.RoleUser, Content: "ticket price kya hai?"}})
	assert.Equal(t, ProvTicketPrice, prov)
	assert.Equal(t, canned.TicketPrice(language.Urdu), reply)
	assert.Equal(t, 1, a.sessions.Len())
}

func TestNewRequiresSearcher(t *testing.T) {
	assert.PanicsWithValue(t, "assistant: Deps.Searcher is required", func() { New(Deps{}) })
}
