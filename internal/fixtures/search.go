// Package fixtures searches upcoming fixtures with automatic window widening
// and renders the results as chat replies.
package fixtures

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sportrium/assistant/internal/dates"
	"github.com/sportrium/assistant/internal/events"
	"github.com/sportrium/assistant/internal/models"
)

const (
	// MaxSports bounds how many sports one utterance fans out to.
	MaxSports = 3

	// UpcomingSpan is the forward window tried when a multi-day window is empty.
	UpcomingSpan = 60
)

// Querier is the events capability the searcher depends on.
type Querier interface {
	Upcoming(ctx context.Context, q events.Query) ([]models.Fixture, error)
}

// Bucket holds the results for one sport and the window that produced them.
// Suggested marks fixtures taken from the illustrative pool; Window is then
// the window that was asked for.
type Bucket struct {
	Sport     string
	Fixtures  []models.Fixture
	Window    dates.Window
	Suggested bool
}

// Result is the outcome of one search.
type Result struct {
	City    string
	Buckets []Bucket
}

// Fixtures flattens all buckets in order.
func (r Result) Fixtures() []models.Fixture {
	var out []models.Fixture
	for _, b := range r.Buckets {
		out = append(out, b.Fixtures...)
	}
	return out
}

// Window is the effective window of the first bucket.
func (r Result) Window() dates.Window {
	if len(r.Buckets) == 0 {
		return dates.Window{}
	}
	return r.Buckets[0].Window
}

// Searcher runs expanding searches against a Querier.
type Searcher struct {
	q      Querier
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithClock sets the clock used to decide what "tomorrow" means.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) { s.now = now }
}

// NewSearcher creates a Searcher.
func NewSearcher(q Querier, logger *slog.Logger, opts ...Option) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Searcher{q: q, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search looks up fixtures for city and up to MaxSports sports within w.
// An empty sports list searches all sports. Each sport widens independently
// and the result keeps one bucket per sport in request order.
func (s *Searcher) Search(ctx context.Context, city string, sports []string, w dates.Window) Result {
	if len(sports) == 0 {
		sports = []string{""}
	}
	if len(sports) > MaxSports {
		sports = sports[:MaxSports]
	}

	buckets := make([]Bucket, len(sports))
	if len(sports) == 1 {
		buckets[0] = s.expand(ctx, city, sports[0], w)
		return Result{City: city, Buckets: buckets}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, sport := range sports {
		g.Go(func() error {
			buckets[i] = s.expand(gctx, city, sport, w)
			return nil
		})
	}
	_ = g.Wait()
	return Result{City: city, Buckets: buckets}
}

// expand widens the window step by step until something is found, ending
// with the suggested dataset.
func (s *Searcher) expand(ctx context.Context, city, sport string, w dates.Window) Bucket {
	for _, next := range s.widenings(w) {
		if found := s.query(ctx, city, sport, next); len(found) > 0 {
			return Bucket{Sport: sport, Fixtures: found, Window: next}
		}
	}

	s.logger.Debug("no fixtures found, using suggestions", "city", city, "sport", sport, "window", w.Key())
	return Bucket{Sport: sport, Fixtures: Suggested(city, sport), Window: w, Suggested: true}
}

// widenings lists the windows to try in order, starting with w itself.
func (s *Searcher) widenings(w dates.Window) []dates.Window {
	today := dates.Day(s.now())
	if w.Days() > 1 {
		start := w.Start
		if start.Before(today) {
			start = today
		}
		return []dates.Window{w, {
			Start: start,
			End:   start.AddDate(0, 0, UpcomingSpan-1),
			Label: dates.LabelUpcoming,
		}}
	}

	next := w.Start.AddDate(0, 0, 1)
	label := next.Format("02 Jan 2006")
	if next.Equal(today.AddDate(0, 0, 1)) {
		label = dates.LabelTomorrow
	}
	return []dates.Window{w, dates.Single(next, label), dates.WeekOf(w.Start, dates.LabelThisWeek)}
}

func (s *Searcher) query(ctx context.Context, city, sport string, w dates.Window) []models.Fixture {
	found, err := s.q.Upcoming(ctx, events.Query{
		City:  city,
		Sport: sport,
		From:  w.Start,
		To:    w.End,
		Limit: maxBullets,
	})
	if err != nil {
		// Already logged by the client; a failed query counts as no data.
		return nil
	}
	return found
}

var suggestedPool = []models.Fixture{
	{Title: "Falcons vs Kings", Sport: "football", City: "Karachi", Venue: "City Arena", When: "7:30 PM"},
	{Title: "Lions vs Rangers", Sport: "basketball", City: "Lahore", Venue: "Model Town Ground", When: "5:00 PM"},
	{Title: "Royals vs City", Sport: "cricket", City: "Lahore", Venue: "Sports Arena", When: "6:00 PM"},
	{Title: "Smashers Open", Sport: "badminton", City: "Islamabad", Venue: "Indoor Hall A", When: "4:00 PM"},
	{Title: "Tennis Meetup", Sport: "tennis", City: "Islamabad", Venue: "Club Courts", When: "6:30 PM"},
}

// Suggested returns illustrative fixtures for city narrowed to sport when set.
// When the pool has nothing for that pair it relaxes to the sport in any
// city and then to the whole pool, so the result is never empty.
func Suggested(city, sport string) []models.Fixture {
	filters := []func(models.Fixture) bool{
		func(f models.Fixture) bool { return strings.EqualFold(f.City, city) && (sport == "" || f.Sport == sport) },
		func(f models.Fixture) bool { return sport != "" && f.Sport == sport },
	}
	for _, keep := range filters {
		var out []models.Fixture
		for _, f := range suggestedPool {
			if keep(f) {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return slices.Clone(suggestedPool)
}
