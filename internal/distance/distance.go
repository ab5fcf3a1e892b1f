// Package distance runs the origin/destination collection flow that ends in a Google
// Maps directions link.
package distance

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sportrium/assistant/internal/language"
	"github.com/sportrium/assistant/internal/models"
	"github.com/sportrium/assistant/internal/session"
)

// Phase is the position of a distance lookup in its state machine.
type Phase int

const (
	AwaitingOrigin Phase = iota
	AwaitingDestination
	Resolved
)

func (p Phase) String() string {
	switch p {
	case AwaitingOrigin:
		return "awaiting-origin"
	case AwaitingDestination:
		return "awaiting-destination"
	default:
		return "resolved"
	}
}

// PhaseOf derives the phase from stored state.
func PhaseOf(d session.Distance) Phase {
	switch {
	case d.Origin == "":
		return AwaitingOrigin
	case d.Destination == "":
		return AwaitingDestination
	default:
		return Resolved
	}
}

// MapsDirBase is the Google Maps directions deep-link endpoint.
const MapsDirBase = "https://www.google.com/maps/dir/"

var trigger = regexp.MustCompile(`(?i)\b(distance|how far|kitn[aie] (door|dur)|door hai|directions?|maps?|raa?sta|route|location share)\b`)

var cancel = regexp.MustCompile(`(?i)\b(cancel|chhodo|chodo|rehne do|never ?mind|forget it|stop)\b`)

// Cancelled reports whether text abandons an in-progress lookup.
func Cancelled(text string) bool {
	return cancel.MatchString(text)
}

// Triggered reports whether text carries distance vocabulary.
func Triggered(text string) bool {
	return trigger.MatchString(text)
}

var (
	fromTo = regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+)$`)
	seTak  = regexp.MustCompile(`(?i)^(.+?)\s+se\s+(.+?)\s+(tak|taak)\b`)
	// "how far is <dest> from <origin>"
	isFrom = regexp.MustCompile(`(?i)\b(?:is|are)\s+(.+?)\s+from\s+(.+)$`)
	seDoor = regexp.MustCompile(`(?i)^(.+?)\s+se\s+(.+?)\s+(?:kitn[aie]\s+)?(?:door|dur)\b`)
	// "to" only marks a destination after a movement or route word, or at a clause start.
	toOnly   = regexp.MustCompile(`(?i)(?:^|[,;]\s*|\b(?:go|going|get|getting|reach|come|coming|head|heading|travel|drive|walk|it|far|distance|directions?|route|way|jana|jaana)\s+)to\s+(.+)$`)
	takOnly  = regexp.MustCompile(`(?i)^(.+?)\s+(tak|taak)\b`)
	doorOnly = regexp.MustCompile(`(?i)^(.+?)\s+(?:kitn[aie]\s+)?(?:door|dur)\s+(?:hai|he|h)\b`)
	fromOnly = regexp.MustCompile(`(?i)\bfrom\s+(.+)$`)
	seOnly   = regexp.MustCompile(`(?i)^(.+?)\s+se\b`)
	wordRe   = regexp.MustCompile(`[\p{L}\p{N}'’-]+`)
)

// generic venue words count only when they qualify a name, as in "Gaddafi Stadium".
var generic = map[string]bool{"stadium": true, "venue": true, "ground": true}

var fillers = map[string]bool{
	"near": true, "around": true, "nearby": true, "close": true, "qareeb": true, "kareeb": true,
	"paas": true, "pass": true, "ke": true, "ka": true, "ki": true, "mein": true, "me": true,
	"main": true, "hoon": true, "hun": true, "i": true, "am": true, "i'm": true, "im": true,
	"my": true, "location": true, "is": true, "at": true, "the": true, "distance": true,
	"kitni": true, "kitna": true, "kitne": true, "door": true, "dur": true, "hai": true,
	"how": true, "far": true, "directions": true, "direction": true, "map": true, "maps": true,
	"google": true, "link": true, "send": true, "bhejo": true, "bhej": true, "do": true,
	"dein": true, "please": true, "plz": true, "raasta": true, "rasta": true, "route": true,
	"batao": true, "bata": true, "what": true, "whats": true, "what's": true, "tell": true,
	"kya": true, "yahan": true, "abhi": true, "share": true, "stay": true, "live": true,
	"rehta": true, "rehti": true, "from": true, "to": true, "se": true, "tak": true, "it": true,
	"and": true, "aur": true, "ok": true, "okay": true, "ji": true, "haan": true, "wahan": true,
	"jana": true, "jaana": true, "hain": true, "hu": true, "mai": true, "get": true,
	"reach": true, "go": true, "jaun": true, "pohanchna": true, "there": true,
	"want": true, "know": true, "need": true, "can": true, "you": true, "could": true,
	"would": true, "like": true, "find": true, "check": true, "mujhe": true,
}

// Outcome is the result of one step of the flow.
type Outcome struct {
	Reply string
	Next  session.Distance
	Link  string
	Phase Phase
}

// Step advances the flow with the user's text. Destination defaults to the venue of the
// first cached fixture; origin never defaults. When both sides are known the link is
// emitted and Next is the zero state.
func Step(text string, prev session.Distance, cached []models.Fixture, city string, lang language.Lang) Outcome {
	next := prev
	next.Active = true

	origin, dest := extract(text)
	if origin == "" && dest == "" {
		if rest := clean(text); rest != "" {
			if next.Origin == "" {
				origin = rest
			} else if next.Destination == "" {
				dest = rest
			}
		}
	}
	if origin != "" {
		next.Origin = origin
	}
	if dest != "" {
		next.Destination = dest
	}
	if next.Destination == "" && len(cached) > 0 && cached[0].Venue != "" {
		next.Destination = cached[0].Venue
	}

	switch PhaseOf(next) {
	case AwaitingOrigin:
		return Outcome{Reply: askOrigin(next.Destination, lang), Next: next, Phase: AwaitingOrigin}
	case AwaitingDestination:
		return Outcome{Reply: askDestination(next.Origin, lang), Next: next, Phase: AwaitingDestination}
	}

	link := Link(withCity(next.Origin, city), withCity(next.Destination, city))
	reply := lang.Pick(
		"📍 "+next.Origin+" → "+next.Destination+"\nGoogle Maps route (distance aur time wahan nazar aayega): "+link,
		"📍 "+next.Origin+" → "+next.Destination+"\nGoogle Maps route (shows distance and travel time): "+link,
	)
	return Outcome{Reply: reply, Next: session.Distance{}, Link: link, Phase: Resolved}
}

// Link builds a Google Maps directions URL.
func Link(origin, destination string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", destination)
	return MapsDirBase + "?" + q.Encode()
}

func extract(text string) (origin, dest string) {
	s := strings.TrimSpace(strings.TrimRight(text, "?!. "))
	if m := fromTo.FindStringSubmatch(s); m != nil {
		return clean(m[1]), clean(m[2])
	}
	if m := seTak.FindStringSubmatch(s); m != nil {
		return clean(m[1]), clean(m[2])
	}
	if m := isFrom.FindStringSubmatch(s); m != nil {
		return clean(m[2]), clean(m[1])
	}
	if m := seDoor.FindStringSubmatch(s); m != nil {
		if origin, dest := clean(m[1]), clean(m[2]); dest != "" {
			return origin, dest
		}
	}
	if m := fromOnly.FindStringSubmatch(s); m != nil {
		origin = clean(m[1])
	} else if m := seOnly.FindStringSubmatch(s); m != nil {
		origin = clean(m[1])
	}
	for _, re := range []*regexp.Regexp{toOnly, takOnly, doorOnly} {
		if m := re.FindStringSubmatch(s); m != nil {
			dest = clean(m[1])
			break
		}
	}
	if dest == origin {
		dest = ""
	}
	return origin, dest
}

// clean strips filler and trigger words and returns what is left.
func clean(s string) string {
	var kept []string
	named := false
	for _, w := range wordRe.FindAllString(s, -1) {
		lw := strings.ToLower(w)
		if fillers[lw] {
			continue
		}
		if !generic[lw] {
			named = true
		}
		kept = append(kept, w)
	}
	if !named {
		return ""
	}
	out := strings.Join(kept, " ")
	if len([]rune(out)) < 2 {
		return ""
	}
	return out
}

func withCity(place, city string) string {
	if city == "" || strings.Contains(strings.ToLower(place), strings.ToLower(city)) {
		return place
	}
	return place + ", " + city
}

func askOrigin(dest string, lang language.Lang) string {
	if dest != "" {
		return lang.Pick(
			"Aap "+dest+" kahan se aayenge? Apna area/landmark batayein (e.g., Gulshan-e-Iqbal), main Google Maps link de dunga.",
			"Where will you be coming from to "+dest+"? Tell me your area or a landmark (e.g., Gulshan-e-Iqbal) and I'll send a Google Maps link.",
		)
	}
	return lang.Pick(
		"Approx area/landmark (e.g., Gulshan-e-Iqbal) batayen ya location share karein — main distance aur Google Maps link de dunga.",
		"Tell me your area/landmark or share location — I'll give distance and a Google Maps link.",
	)
}

func askDestination(origin string, lang language.Lang) string {
	return lang.Pick(
		"Theek hai, "+origin+" se. Kahan jaana hai? Venue ya ground ka naam batayein.",
		"Got it, from "+origin+". Where are you heading? Tell me the venue or ground.",
	)
}
