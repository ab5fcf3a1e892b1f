package assistant

import (
	"regexp"
	"strings"
	"time"

	"github.com/sportrium/assistant/internal/dates"
	"github.com/sportrium/assistant/internal/models"
	"github.com/sportrium/assistant/internal/session"
)

// slots are the search slots for this turn. Values found in the transcript win;
// session memory fills whatever the transcript leaves open.
type slots struct {
	City   string
	Sports []string
	Window dates.Window

	// set when the latest user message itself named a city or sport
	textCity, textSport bool
}

// Sport returns the first sport, if any.
func (s slots) Sport() string {
	if len(s.Sports) == 0 {
		return ""
	}
	return s.Sports[0]
}

// FromText reports whether the latest message supplied a city or sport.
func (s slots) FromText() bool {
	return s.textCity || s.textSport
}

// Summary renders the known state for the generative fallback.
func (s slots) Summary() string {
	orEmpty := func(v string) string {
		if v == "" {
			return "∅"
		}
		return v
	}
	label := dates.LabelToday
	if !s.Window.IsZero() {
		label = s.Window.Label
	}
	return "city=" + orEmpty(s.City) + " | sport=" + orEmpty(strings.Join(s.Sports, ",")) + " | date_label=" + label
}

// collect walks user turns from newest to oldest, filling each slot once.
func (a *Assistant) collect(turns []models.Turn, prev session.State, today time.Time) slots {
	var s slots
	latest := true
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != models.RoleUser {
			continue
		}
		text := turns[i].Content
		if s.City == "" {
			if city, ok := a.catalog.ResolveCity(text); ok {
				s.City, s.textCity = city, latest
			}
		}
		if len(s.Sports) == 0 {
			if sports := a.catalog.ResolveSports(text); len(sports) > 0 {
				s.Sports, s.textSport = sports, latest
			}
		}
		if s.Window.IsZero() {
			if w, ok := dates.ParseWindow(text, today); ok {
				s.Window = w
			}
		}
		latest = false
	}

	if s.City == "" {
		s.City = prev.Search.City
	}
	if len(s.Sports) == 0 {
		s.Sports = append([]string(nil), prev.Search.Sports...)
	}
	if s.Window.IsZero() && !prev.Search.Window.IsZero() && !prev.Search.Window.End.Before(today) {
		s.Window = prev.Search.Window
	}
	return s
}

var (
	followupWord = regexp.MustCompile(`[\p{L}\p{N}]+`)
	followupFill = map[string]bool{
		"for": true, "and": true, "what": true, "about": true, "how": true, "aur": true,
		"ka": true, "ki": true, "ke": true, "liye": true, "bhi": true, "ya": true, "or": true,
		"then": true, "phir": true, "kya": true, "ok": true, "now": true, "ab": true,
		"me": true, "mein": true, "ko": true, "please": true, "plz": true,
	}
)

// bareSport reports whether text is only a sport name plus connective filler,
// e.g. "cricket?" or "for tennis".
func (a *Assistant) bareSport(text string) (string, bool) {
	sport, ok := a.catalog.ResolveSport(text)
	if !ok {
		return "", false
	}
	for _, tok := range followupWord.FindAllString(strings.ToLower(text), -1) {
		if followupFill[tok] {
			continue
		}
		if s, ok := a.catalog.ResolveSport(tok); ok && s == sport {
			continue
		}
		return "", false
	}
	return sport, true
}

// isShort is true for messages of at most five words.
func isShort(text string) bool {
	return len(followupWord.FindAllString(text, -1)) <= 5
}
