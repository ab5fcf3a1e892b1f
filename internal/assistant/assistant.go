// Package assistant sequences the dialogue components into one reply per turn.
package assistant

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sportrium/assistant/internal/canned"
	"github.com/sportrium/assistant/internal/catalog"
	"github.com/sportrium/assistant/internal/dates"
	"github.com/sportrium/assistant/internal/distance"
	"github.com/sportrium/assistant/internal/fixtures"
	"github.com/sportrium/assistant/internal/intent"
	"github.com/sportrium/assistant/internal/language"
	"github.com/sportrium/assistant/internal/llm"
	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/models"
	"github.com/sportrium/assistant/internal/session"
)

// Provenance tags. They are for observability only.
const (
	ProvGreeting       = "greeting"
	ProvDistance       = "distance"
	ProvHealth         = "health-guardrail"
	ProvHistory        = "history"
	ProvTraining       = "training"
	ProvClarify        = "clarify"
	ProvMatches        = "local-matches"
	ProvMatchesSuggest = "local-matches-suggest"
	ProvTicketPrice    = "ticket-price"
	ProvPurpose        = "purpose"
	ProvHowTo          = "how-to"
	ProvReminder       = "reminder"
)

// DefaultThreshold is the confidence below which the assistant asks instead of acting.
const DefaultThreshold = 0.55

// Deps are the collaborators an Assistant is built from. Searcher is required;
// every other field has a default.
type Deps struct {
	// Catalog defaults to an empty catalog that resolves nothing.
	Catalog *catalog.Loader
	// Sessions defaults to a store with session.DefaultTTL.
	Sessions   *session.Store
	Classifier intent.Classifier
	Searcher   *fixtures.Searcher
	Fallback   *llm.Fallback
	Metrics    *metrics.Collector
	Logger     *slog.Logger

	// Threshold defaults to DefaultThreshold.
	Threshold float64
	// Now defaults to time.Now.
	Now func() time.Time
}

// Assistant answers chat turns.
type Assistant struct {
	catalog    *catalog.Loader
	sessions   *session.Store
	classifier intent.Classifier
	searcher   *fixtures.Searcher
	fallback   *llm.Fallback
	metrics    *metrics.Collector
	logger     *slog.Logger
	threshold  float64
	now        func() time.Time
}

// New creates an Assistant. It panics when d.Searcher is nil.
func New(d Deps) *Assistant {
	if d.Searcher == nil {
		panic("assistant: Deps.Searcher is required")
	}
	a := &Assistant{
		catalog:    d.Catalog,
		sessions:   d.Sessions,
		classifier: d.Classifier,
		searcher:   d.Searcher,
		fallback:   d.Fallback,
		metrics:    d.Metrics,
		logger:     d.Logger,
		threshold:  d.Threshold,
		now:        d.Now,
	}
	if a.catalog == nil {
		a.catalog = catalog.NewStatic(catalog.Catalog{})
	}
	if a.sessions == nil {
		a.sessions = session.NewStore(session.DefaultTTL)
	}
	if a.classifier == nil {
		a.classifier = intent.NewRuleClassifier(nil)
	}
	if a.fallback == nil {
		a.fallback = llm.NewFallback(llm.DefaultSystemPrompt, 0, d.Logger)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.threshold <= 0 {
		a.threshold = DefaultThreshold
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// turn carries everything one Reply call works with.
type turn struct {
	sessionID string
	text      string
	lang      language.Lang
	today     time.Time
	slots     slots
	prev      session.State
	next      session.State
}

// Reply produces the reply text and its provenance tag for the latest user
// message in transcript. It never fails: every error degrades to some reply.
func (a *Assistant) Reply(ctx context.Context, sessionID string, transcript []models.Turn) (string, string) {
	start := time.Now()

	if sessionID != "" {
		unlock := a.sessions.Lock(sessionID)
		defer unlock()
	}

	turns := models.NormalizeTranscript(transcript)
	t := &turn{
		sessionID: sessionID,
		text:      models.LastUserText(turns),
		today:     dates.Day(a.now()),
		prev:      a.sessions.Get(sessionID),
	}
	t.lang = language.Detect(t.text)
	t.next = t.prev.Clone()
	t.slots = a.collect(turns, t.prev, t.today)
	// A city or sport named in the latest message replaces the remembered one;
	// naming a new city is how a user resets the search.
	if t.slots.City != "" {
		t.next.Search.City = t.slots.City
	}
	if len(t.slots.Sports) > 0 {
		t.next.Search.Sports = slices.Clone(t.slots.Sports)
	}

	reply, provenance, label := a.route(ctx, t)

	t.next.LastReply = reply
	if label != "" {
		t.next.LastIntent = label
	}
	a.sessions.Update(sessionID, func(s *session.State) { *s = t.next })

	duration := time.Since(start)
	a.metrics.RecordTiming(metrics.OpChatTurn, duration, nil)
	a.metrics.RecordProvenance(provenance)
	a.logger.Info("chat turn",
		"session", sessionID,
		"lang", t.lang,
		"intent", label,
		"provenance", provenance,
		"duration_ms", duration.Milliseconds())
	return reply, provenance
}

// route evaluates the turn stages in priority order; the first match wins.
// label is the intent to remember for follow-ups, or empty to keep the previous one.
func (a *Assistant) route(ctx context.Context, t *turn) (reply, provenance string, label models.Intent) {
	if strings.TrimSpace(t.text) == "" {
		return canned.Clarify(t.lang), ProvClarify, ""
	}

	if r, ok := canned.Greeting(t.text, t.lang); ok {
		return r, ProvGreeting, models.IntentChitchat
	}

	if r, ok := a.distanceStage(t); ok {
		return r, ProvDistance, models.IntentDistance
	}

	if canned.IsHealthQuestion(t.text) {
		return canned.HealthReply(t.slots.Sport(), t.lang), ProvHealth, ""
	}

	if r, prov, l, ok := a.sportSwitch(t); ok {
		return r, prov, l
	}

	if w, ok := dates.IsDateOnly(t.text, t.today); ok && t.prev.LastIntent == models.IntentFindMatches && t.slots.City != "" {
		t.slots.Window = w
		r, prov := a.findMatches(ctx, t)
		return r, prov, models.IntentFindMatches
	}

	label, confidence := a.classifier.Classify(ctx, t.text)
	a.logger.Debug("classified", "session", t.sessionID, "intent", label, "confidence", confidence)

	if confidence < a.threshold && label != models.IntentChitchat && !intent.HasFixtureVocabulary(t.text) {
		if t.prev.LastIntent == models.IntentFindMatches && t.slots.FromText() {
			// Answer to an earlier "which city/sport?" question.
			label = models.IntentFindMatches
		} else {
			return a.clarify(t)
		}
	}

	return a.branch(ctx, t, label)
}

func (a *Assistant) clarify(t *turn) (string, string, models.Intent) {
	switch {
	case t.slots.City == "":
		return canned.AskCity(t.lang), ProvClarify, models.IntentFindMatches
	case len(t.slots.Sports) == 0:
		return canned.AskSport(t.lang), ProvClarify, models.IntentFindMatches
	}
	return canned.Clarify(t.lang), ProvClarify, models.IntentFallback
}

func (a *Assistant) branch(ctx context.Context, t *turn, label models.Intent) (string, string, models.Intent) {
	switch label {
	case models.IntentFindMatches:
		r, prov := a.findMatches(ctx, t)
		return r, prov, label
	case models.IntentTicketPrice:
		return canned.TicketPrice(t.lang), ProvTicketPrice, label
	case models.IntentPurpose:
		return canned.Purpose(t.lang), ProvPurpose, label
	case models.IntentHowToUse:
		return canned.HowToUse(t.lang), ProvHowTo, label
	case models.IntentReminder:
		return canned.Reminder(t.lang), ProvReminder, label
	case models.IntentDistance:
		return a.distanceStep(t), ProvDistance, label
	case models.IntentHistory:
		return canned.History(t.slots.Sport(), t.lang), ProvHistory, label
	case models.IntentTraining:
		return a.training(t, t.slots.Sport()), ProvTraining, label
	}

	reply, provenance := a.fallback.Reply(ctx, t.text, t.slots.Summary(), t.lang)
	return reply, provenance, label
}

// distanceStage handles the distance flow when triggered or already running.
// An explicit cancel, a health question or any other recognised intent
// abandons a running flow.
func (a *Assistant) distanceStage(t *turn) (string, bool) {
	triggered := distance.Triggered(t.text)
	active := t.prev.Distance.Active
	if !triggered && !active {
		return "", false
	}

	if active && !triggered {
		if distance.Cancelled(t.text) {
			t.next.Distance = session.Distance{}
			return t.lang.Pick(
				"Theek hai, distance wali baat chhod dete hain. Aur kya madad karun?",
				"Okay, dropping the directions request. What else can I help with?",
			), true
		}
		if label, ok := intent.MatchRule(t.text); (ok && label != models.IntentDistance) || canned.IsHealthQuestion(t.text) {
			t.next.Distance = session.Distance{}
			return "", false
		}
	}
	return a.distanceStep(t), true
}

func (a *Assistant) distanceStep(t *turn) string {
	out := distance.Step(t.text, t.prev.Distance, t.prev.Search.Results, t.slots.City, t.lang)
	t.next.Distance = out.Next
	return out.Reply
}

// sportSwitch re-targets a training or history answer at a newly named sport,
// and serves "more" drills after a training answer.
func (a *Assistant) sportSwitch(t *turn) (string, string, models.Intent, bool) {
	last := t.prev.LastIntent
	if last != models.IntentTraining && last != models.IntentHistory {
		return "", "", "", false
	}

	sport, ok := a.bareSport(t.text)
	if !ok && last == models.IntentTraining && canned.AsksForMore(t.text) && isShort(t.text) {
		if sport, ok = a.catalog.ResolveSport(t.text); !ok {
			sport, ok = t.prev.Drills.Sport, t.prev.Drills.Sport != ""
		}
	}
	if !ok {
		return "", "", "", false
	}

	if last == models.IntentHistory {
		return canned.History(sport, t.lang), ProvHistory, last, true
	}
	return a.training(t, sport), ProvTraining, last, true
}

func (a *Assistant) training(t *turn, sport string) string {
	reply, drills := canned.Training(sport, canned.AsksForMore(t.text), t.prev.Drills, t.lang)
	t.next.Drills = drills
	return reply
}

// findMatches runs the expanding search and suppresses a verbatim repeat.
func (a *Assistant) findMatches(ctx context.Context, t *turn) (string, string) {
	city := t.slots.City
	if city == "" {
		return canned.AskCity(t.lang), ProvClarify
	}

	window := t.slots.Window
	if window.IsZero() {
		window = dates.Default(t.today)
	}
	sports := t.slots.Sports
	if len(sports) > fixtures.MaxSports {
		sports = sports[:fixtures.MaxSports]
	}

	result := a.searcher.Search(ctx, city, sports, window)
	reply := fixtures.Format(result, t.lang)
	fingerprint := fixtures.Fingerprint(city, sports, window)

	if fixtures.IsRepeat(t.prev.Search.Fingerprint, t.prev.Search.Reply, fingerprint, reply) {
		return fixtures.Broaden(t.lang), ProvMatchesSuggest
	}

	t.next.Search = session.Search{
		City:        city,
		Sports:      slices.Clone(sports),
		Window:      window,
		Fingerprint: fingerprint,
		Reply:       reply,
		Results:     result.Fixtures(),
	}
	return reply, ProvMatches
}
