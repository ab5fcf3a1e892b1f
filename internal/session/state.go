// Package session keeps short-lived per-session dialogue state in memory.
package session

import (
	"maps"
	"slices"

	"github.com/sportrium/assistant/internal/dates"
	"github.com/sportrium/assistant/internal/models"
)

// State is everything the assistant remembers about one conversation.
// The zero value is a valid, empty state.
type State struct {
	Search   Search
	Drills   Drills
	Distance Distance

	LastIntent models.Intent
	LastReply  string
}

// Search holds the fixture-search slots and the memory of the last search.
type Search struct {
	City   string
	Sports []string
	Window dates.Window

	Fingerprint string
	Reply       string
	Results     []models.Fixture
}

// Sport returns the first resolved sport, if any.
func (s Search) Sport() string {
	if len(s.Sports) == 0 {
		return ""
	}
	return s.Sports[0]
}

// Drills tracks drill-pack pagination per sport.
type Drills struct {
	Sport  string
	Cursor map[string]int
}

// Distance is the in-progress distance lookup. Active is false in the initial state.
type Distance struct {
	Active      bool
	Origin      string
	Destination string
}

// Clone returns a deep copy so callers never share slices or maps with the store.
func (s State) Clone() State {
	s.Search.Sports = slices.Clone(s.Search.Sports)
	s.Search.Results = slices.Clone(s.Search.Results)
	s.Drills.Cursor = maps.Clone(s.Drills.Cursor)
	return s
}
