package fixtures

import (
	"slices"
	"strings"

	"github.com/sportrium/assistant/internal/dates"
	"github.com/sportrium/assistant/internal/language"
)

const maxBullets = 5

// Fingerprint identifies a search by city, sport set and requested window.
func Fingerprint(city string, sports []string, w dates.Window) string {
	s := slices.Clone(sports)
	slices.Sort(s)
	return strings.ToLower(city) + "|" + strings.Join(s, ",") + "|" + w.Key()
}

// IsRepeat reports whether a search duplicates the previous one.
// Both the fingerprint and the rendered reply must match.
func IsRepeat(prevFingerprint, prevReply, fingerprint, reply string) bool {
	return prevFingerprint != "" && prevFingerprint == fingerprint && prevReply == reply
}

// Broaden offers to change the filters instead of repeating a listing.
func Broaden(lang language.Lang) string {
	return lang.Pick(
		"Yehi filters pe check ho chuka hai. Kya main kisi aur city/date (e.g., Islamabad / weekend) try karu, ya sport change karun?",
		"We already checked these filters. Want me to try another city/date (e.g., Islamabad / weekend) or a different sport?",
	)
}

var urduLabels = map[string]string{
	dates.LabelToday:    "aaj",
	dates.LabelTomorrow: "kal",
	dates.LabelDayAfter: "parso",
	dates.LabelThisWeek: "is haftay",
}

// DisplayLabel renders a window label in the reply language.
func DisplayLabel(label string, lang language.Lang) string {
	if lang == language.Urdu {
		if ur, ok := urduLabels[label]; ok {
			return ur
		}
	}
	return label
}

// Format renders r as a chat reply in lang.
func Format(r Result, lang language.Lang) string {
	if len(r.Buckets) == 1 {
		return formatSingle(r.City, r.Buckets[0], lang)
	}

	var b strings.Builder
	b.WriteString(lang.Pick(r.City+" me ye options mile:", "In "+r.City+", here is what I found:"))
	for _, bucket := range r.Buckets {
		label := DisplayLabel(bucket.Window.Label, lang)
		b.WriteString("\n\n" + title(bucket.Sport) + " (" + label + "):")
		if len(bucket.Fixtures) == 0 {
			b.WriteString(lang.Pick("\n• koi listing nazar nahi aayi", "\n• no listings found"))
			continue
		}
		if bucket.Suggested {
			b.WriteString(lang.Pick("\nkoi listing nazar nahi aayi, misaal ke taur par:", "\nno listings found, for example:"))
		}
		writeBullets(&b, bucket)
	}
	b.WriteString("\n" + lang.Pick("Details ‘Schedule’ page par dekh sakte hain.", "Check the Schedule page for details."))
	return b.String()
}

func formatSingle(city string, bucket Bucket, lang language.Lang) string {
	label := DisplayLabel(bucket.Window.Label, lang)
	if len(bucket.Fixtures) == 0 {
		if lang == language.Urdu {
			sport := ""
			if bucket.Sport != "" {
				sport = " " + bucket.Sport
			}
			return label + " " + city + " me" + sport + " koi listing nazar nahi aayi. Nearby city/another date try karna chahenge?"
		}
		sport := bucket.Sport
		if sport == "" {
			sport = "the selected sports"
		}
		return "No matches found in " + city + " for " + sport + " " + label + "."
	}

	var b strings.Builder
	if bucket.Suggested {
		b.WriteString(suggestedHeader(city, bucket.Sport, label, lang))
	} else {
		b.WriteString(lang.Pick(city+" me "+label+" ye options mile:", "In "+city+", "+label+" I found:"))
	}
	writeBullets(&b, bucket)
	b.WriteString("\n" + lang.Pick("Details ‘Schedule’ page par dekh sakte hain.", "Check the Schedule page for details."))
	return b.String()
}

func suggestedHeader(city, sport, label string, lang language.Lang) string {
	if lang == language.Urdu {
		if sport != "" {
			sport = " " + sport
		}
		return city + " me" + sport + " (" + label + ") koi listing nazar nahi aayi. Misaal ke taur par ye listings dekhein:"
	}
	if sport != "" {
		sport += " "
	}
	return "No " + sport + "matches found in " + city + " (" + label + "). Here are some example listings:"
}

func writeBullets(b *strings.Builder, bucket Bucket) {
	for i, f := range bucket.Fixtures {
		if i == maxBullets {
			break
		}
		b.WriteString("\n• " + f.Title + " • " + f.City + " • " + f.Venue + " • " + f.When)
	}
}

func title(s string) string {
	if s == "" {
		return "All sports"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
