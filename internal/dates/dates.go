// Package dates parses natural-language date windows in English and Roman-Urdu.
package dates

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Labels for the relative phrase families.
const (
	LabelToday    = "today"
	LabelTomorrow = "tomorrow"
	LabelDayAfter = "day after tomorrow"
	LabelThisWeek = "this week"
	LabelWeekend  = "weekend"
	LabelUpcoming = "upcoming"
)

// AnyDateSpan is how far ahead an "any date / upcoming" request looks.
const AnyDateSpan = 21

// Window is an inclusive calendar date range with a human label.
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

// Days returns the number of calendar days covered by the window.
func (w Window) Days() int {
	return int(math.Round(w.End.Sub(w.Start).Hours()/24)) + 1
}

// Key renders the window for fingerprints and query parameters.
func (w Window) Key() string {
	return w.Start.Format(time.DateOnly) + ".." + w.End.Format(time.DateOnly)
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool { return w.Start.IsZero() }

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Default is the window callers fall back to when nothing was parsed.
func Default(today time.Time) Window {
	d := Day(today)
	return Window{Start: d, End: d, Label: LabelToday}
}

// Single returns a one-day window.
func Single(d time.Time, label string) Window {
	d = Day(d)
	return Window{Start: d, End: d, Label: label}
}

// WeekOf returns the Monday..Sunday week containing d.
func WeekOf(d time.Time, label string) Window {
	d = Day(d)
	start := d.AddDate(0, 0, -mondayIndex(d.Weekday()))
	return Window{Start: start, End: start.AddDate(0, 0, 6), Label: label}
}

type rule struct {
	re    *regexp.Regexp
	build func(today time.Time) Window
}

var anyDate = regexp.MustCompile(`\b(any ?date|any ?day|anytime|upcoming|koi bhi (din|date)|kisi bhi (din|date)|jab bhi)\b`)

// relative phrases, in priority order.
var relative = []rule{
	{regexp.MustCompile(`\b(parso|parson|day after tomorrow)\b`), func(t time.Time) Window {
		return Single(t.AddDate(0, 0, 2), LabelDayAfter)
	}},
	{regexp.MustCompile(`\b(aaj|aj|today|tonight)\b`), func(t time.Time) Window {
		return Single(t, LabelToday)
	}},
	{regexp.MustCompile(`\b(kal|kl|tomorrow|tmrw)\b`), func(t time.Time) Window {
		return Single(t.AddDate(0, 0, 1), LabelTomorrow)
	}},
	{regexp.MustCompile(`\b(this week|is hafta|is hafte|is haftay|is week)\b`), func(t time.Time) Window {
		return WeekOf(t, LabelThisWeek)
	}},
	{regexp.MustCompile(`\b(weekend|hafta akhir|week ?end)\b`), weekend},
}

// weekend is Friday..Sunday; on Saturday or Sunday it is the remainder of the current one.
func weekend(today time.Time) Window {
	d := Day(today)
	switch d.Weekday() {
	case time.Saturday:
		return Window{Start: d, End: d.AddDate(0, 0, 1), Label: LabelWeekend}
	case time.Sunday:
		return Window{Start: d, End: d, Label: LabelWeekend}
	}
	fri := d.AddDate(0, 0, (int(time.Friday)-int(d.Weekday())+7)%7)
	return Window{Start: fri, End: fri.AddDate(0, 0, 2), Label: LabelWeekend}
}

var weekdays = []struct {
	re  *regexp.Regexp
	day time.Weekday
}{
	{regexp.MustCompile(`\b(monday|somwar|pir)\b`), time.Monday},
	{regexp.MustCompile(`\b(tuesday|mangal)\b`), time.Tuesday},
	{regexp.MustCompile(`\b(wednesday|budh|budhwar)\b`), time.Wednesday},
	{regexp.MustCompile(`\b(thursday|jumeraat|jumerat)\b`), time.Thursday},
	{regexp.MustCompile(`\b(friday|jumma|juma|jummah)\b`), time.Friday},
	{regexp.MustCompile(`\b(saturday|shanba|sanichar)\b`), time.Saturday},
	{regexp.MustCompile(`\b(sunday|itwaar|itwar|aitvar)\b`), time.Sunday},
}

// NextWeekday returns the next occurrence of wd strictly after today (1..7 days ahead).
func NextWeekday(wd time.Weekday, today time.Time) time.Time {
	d := Day(today)
	delta := (int(wd) - int(d.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return d.AddDate(0, 0, delta)
}

// ParseWindow extracts a date window from text. The second return is false when the text
// names no date; callers then use Default.
func ParseWindow(text string, today time.Time) (Window, bool) {
	w, _, ok := parse(text, today)
	return w, ok
}

// IsDateOnly reports whether text is nothing but a date phrase plus filler words,
// e.g. "aur kal?" or "what about friday".
func IsDateOnly(text string, today time.Time) (Window, bool) {
	w, span, ok := parse(text, today)
	if !ok {
		return Window{}, false
	}
	rest := strings.Replace(normalize(text), span, " ", 1)
	for _, tok := range wordToken.FindAllString(rest, -1) {
		if !fillers[tok] {
			return Window{}, false
		}
	}
	return w, true
}

var wordToken = regexp.MustCompile(`[\p{L}\p{N}]+`)

var fillers = map[string]bool{
	"and": true, "aur": true, "what": true, "about": true, "how": true, "for": true, "on": true,
	"then": true, "phir": true, "to": true, "ka": true, "ki": true, "ko": true, "pe": true,
	"par": true, "kya": true, "ok": true, "okay": true, "acha": true, "accha": true, "ya": true,
	"or": true, "the": true, "ke": true, "liye": true, "lie": true, "se": true, "hai": true,
	"ho": true, "tak": true, "till": true, "by": true, "at": true, "of": true, "please": true,
	"plz": true, "dekho": true, "batao": true, "bata": true, "do": true, "instead": true,
}

func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return whitespace.ReplaceAllString(s, " ")
}

var whitespace = regexp.MustCompile(`[,\s]+`)

func parse(text string, today time.Time) (Window, string, bool) {
	s := normalize(text)
	today = Day(today)
	if s == "" {
		return Window{}, "", false
	}

	if m := anyDate.FindString(s); m != "" {
		return Window{Start: today, End: today.AddDate(0, 0, AnyDateSpan), Label: LabelUpcoming}, m, true
	}
	for _, r := range relative {
		if m := r.re.FindString(s); m != "" {
			return r.build(today), m, true
		}
	}
	for _, wd := range weekdays {
		if m := wd.re.FindString(s); m != "" {
			return Single(NextWeekday(wd.day, today), strings.ToLower(wd.day.String())), m, true
		}
	}
	if d, m, ok := parseExplicit(s, today); ok {
		return Single(d, d.Format("02 Jan 2006")), m, true
	}
	return Window{}, "", false
}

var months = map[string]time.Month{
	"jan": time.January, "january": time.January, "feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March, "apr": time.April, "april": time.April,
	"may": time.May, "jun": time.June, "june": time.June, "jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August, "sep": time.September, "sept": time.September,
	"september": time.September, "oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November, "dec": time.December, "december": time.December,
}

var (
	isoDate     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dayMonYear  = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)? (?:of )?([a-z]{3,9}) (\d{4})\b`)
	monDayYear  = regexp.MustCompile(`\b([a-z]{3,9}) (\d{1,2})(?:st|nd|rd|th)? (\d{4})\b`)
	numericYear = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})\b`)
	dayMon      = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)? (?:of )?([a-z]{3,9})\b`)
	monDay      = regexp.MustCompile(`\b([a-z]{3,9}) (\d{1,2})(?:st|nd|rd|th)?\b`)
	numericNoYr = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)

	timeAfter = regexp.MustCompile(`^\s*(baje|bje|pm|am|o'?clock)\b`)
	cueBefore = regexp.MustCompile(`\b(on|date|dated|tareekh|tarikh|from|till|until)\s*$`)
	cueAfter  = regexp.MustCompile(`^\s*(ko|ka|ki|ke|pe|par|tak|se)\b`)
)

// yearlessDate reports whether the d/m at s[start:end] reads as a date. It must
// sit next to a date word or among filler words only, and never before a clock word.
func yearlessDate(s string, start, end int) bool {
	before, after := s[:start], s[end:]
	if timeAfter.MatchString(after) {
		return false
	}
	if cueBefore.MatchString(before) || cueAfter.MatchString(after) {
		return true
	}
	for _, tok := range wordToken.FindAllString(before+" "+after, -1) {
		if !fillers[tok] {
			return false
		}
	}
	return true
}

// parseExplicit recognises calendar dates. Year-less forms resolve to the nearest
// occurrence on or after today.
func parseExplicit(s string, today time.Time) (time.Time, string, bool) {
	for _, m := range isoDate.FindAllStringSubmatch(s, -1) {
		if d, ok := civil(atoi(m[1]), atoi(m[2]), atoi(m[3]), today); ok {
			return d, m[0], true
		}
	}
	for _, m := range dayMonYear.FindAllStringSubmatch(s, -1) {
		if mon, ok := months[m[2]]; ok {
			if d, ok := civil(atoi(m[3]), int(mon), atoi(m[1]), today); ok {
				return d, m[0], true
			}
		}
	}
	for _, m := range monDayYear.FindAllStringSubmatch(s, -1) {
		if mon, ok := months[m[1]]; ok {
			if d, ok := civil(atoi(m[3]), int(mon), atoi(m[2]), today); ok {
				return d, m[0], true
			}
		}
	}
	for _, m := range numericYear.FindAllStringSubmatch(s, -1) {
		a, b, y := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if y < 100 {
			y += 2000
		}
		// dd/mm first, then mm/dd
		for _, p := range [][2]int{{a, b}, {b, a}} {
			if d, ok := civil(y, p[1], p[0], today); ok {
				return d, m[0], true
			}
		}
	}
	for _, m := range dayMon.FindAllStringSubmatch(s, -1) {
		if mon, ok := months[m[2]]; ok {
			if d, ok := nextOccurrence(int(mon), atoi(m[1]), today); ok {
				return d, m[0], true
			}
		}
	}
	for _, m := range monDay.FindAllStringSubmatch(s, -1) {
		if mon, ok := months[m[1]]; ok {
			if d, ok := nextOccurrence(int(mon), atoi(m[2]), today); ok {
				return d, m[0], true
			}
		}
	}
	for _, idx := range numericNoYr.FindAllStringSubmatchIndex(s, -1) {
		if !yearlessDate(s, idx[0], idx[1]) {
			continue
		}
		a, b := atoi(s[idx[2]:idx[3]]), atoi(s[idx[4]:idx[5]])
		for _, p := range [][2]int{{a, b}, {b, a}} {
			if d, ok := nextOccurrence(p[1], p[0], today); ok {
				return d, s[idx[0]:idx[1]], true
			}
		}
	}
	return time.Time{}, "", false
}

// nextOccurrence resolves a year-less day/month to this year, or next year if it passed.
func nextOccurrence(month, day int, today time.Time) (time.Time, bool) {
	d, ok := civil(today.Year(), month, day, today)
	if !ok {
		// 29 Feb outside a leap year: try next year before giving up.
		return civil(today.Year()+1, month, day, today)
	}
	if d.Before(today) {
		return civil(today.Year()+1, month, day, today)
	}
	return d, true
}

// civil builds a date and rejects values time.Date would normalise (e.g. 31 Feb).
func civil(year, month, day int, loc time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc.Location())
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// mondayIndex maps Monday..Sunday to 0..6.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
