package canned

import (
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/sportrium/assistant/internal/language"
	"github.com/sportrium/assistant/internal/session"
)

// Pack is one bundle of drill bullets. Packs of the same sport never share a bullet.
type Pack []string

var drillPacks = map[string][]Pack{
	"football": {
		{"Wall passes: 2-touch passing against a wall, 3 x 2 min each foot", "Cone dribbling slalom, 5 cones 1 m apart, 6 runs", "Rondo 4v1 in a 10 x 10 m square, 3 rounds"},
		{"First-touch control: receive and turn from thrown balls, 20 reps", "Shooting from the edge of the box, 10 per foot", "1v1 attacking duels in a channel, 8 reps"},
		{"Sprint ladder footwork, 4 patterns x 3", "Crossing and finishing in pairs, 12 crosses", "Small-sided 3v3 to two mini goals, 4 x 4 min"},
	},
	"cricket": {
		{"Shadow batting: 30 straight drives focusing on head position", "Throw-downs on a good length, 3 x 12 balls", "Catching: 20 high catches and 20 flat catches"},
		{"Bowling to a target cone on a good length, 4 overs", "Running between wickets: 10 quick singles with turns", "Reflex slip catching with a rebound net, 3 x 1 min"},
		{"Front-foot defence against spin, 3 x 12 balls", "Fielding: pick-up and throw at one stump, 15 reps", "Yorker practice at a shoe target, 2 overs"},
	},
	"basketball": {
		{"Form shooting 1 m from the rim, 5 spots x 10", "Two-ball stationary dribbling, 3 x 45 s", "Defensive slides baseline to baseline, 6 lengths"},
		{"Mikan drill around the rim, 3 x 1 min", "Free throws in sets of 10, track makes", "Crossover into pull-up jumper, 10 each side"},
		{"Full-court layups alternating hands, 10 trips", "Closeout and contest drill, 3 x 8 reps", "Pass-and-cut 3v0 motion, 5 minutes"},
	},
	"badminton": {
		{"Shadow footwork to six corners, 4 x 1 min", "High clears to the back line, 3 x 20", "Short serve to the T, 30 reps"},
		{"Drop shots from the rear court, 3 x 15", "Net kills and tumbling net shots, 3 x 1 min", "Split-step timing with a feeder, 20 reps"},
		{"Smash and recover to base, 3 x 10", "Drive rallies mid-court, 4 x 1 min", "Backhand clears, 3 x 12"},
	},
	"tennis": {
		{"Mini-tennis in the service boxes, 5 minutes", "Cross-court forehand rally target, 3 x 20", "Serve toss consistency, 30 tosses"},
		{"Backhand down the line to a cone, 3 x 15", "Volley-volley at the net with a partner, 3 x 1 min", "Split-step and first-step reaction, 20 reps"},
		{"Second-serve kick to the backhand box, 3 x 10", "Approach shot and volley pattern, 10 reps", "Lateral shuffle with a medicine ball toss, 3 x 30 s"},
	},
	"volleyball": {
		{"Forearm passing to a target, 3 x 20", "Overhead setting against a wall, 3 x 30", "Float serve to zones 1 and 5, 20 serves"},
		{"Approach footwork for spiking, 4 x 5", "Blocking footwork along the net, 3 x 6", "Dig from a coach's down-ball, 3 x 10"},
		{"Setter-to-hitter combination, 15 reps", "Serve receive in a 3-person line, 4 minutes", "Jump float serve, 15 serves"},
	},
}

var moreSignal = regexp.MustCompile(`(?i)\b(more|another|next|kuch aur|aur (tips|drills|do|batao|bhi|de)|naye|nayi|new ones|dusr[ae]|doosr[ae]|different)\b`)

// AsksForMore reports whether text asks for the next drill pack.
func AsksForMore(text string) bool {
	return moreSignal.MatchString(text)
}

// HasDrills reports whether sport has a drill bank.
func HasDrills(sport string) bool {
	_, ok := drillPacks[sport]
	return ok
}

// FirstPack returns the first drill pack for sport.
func FirstPack(sport string) Pack {
	packs := drillPacks[sport]
	if len(packs) == 0 {
		return nil
	}
	return packs[0]
}

// PackCount returns how many packs sport has.
func PackCount(sport string) int {
	return len(drillPacks[sport])
}

// TrainingDisclaimer is appended to every training reply.
func TrainingDisclaimer(lang language.Lang) string {
	return lang.Pick(
		"⚠️ Ye general, non-medical tips hain. Injury ya dard ho to doctor/physio se mashwara karein.",
		"⚠️ These are general, non-medical tips. For injury or pain, consult a doctor or physio.",
	)
}

// Training renders the drill pack for sport and returns the updated pagination state.
// A "more" request advances the cursor with wrap-around; a fresh request repeats the
// current pack; switching sport starts that sport at pack 0.
func Training(sport string, more bool, prev session.Drills, lang language.Lang) (string, session.Drills) {
	packs := drillPacks[sport]
	if len(packs) == 0 {
		return AskTrainingSport(lang), prev
	}
	next := session.Drills{Sport: sport, Cursor: maps.Clone(prev.Cursor)}
	if next.Cursor == nil {
		next.Cursor = make(map[string]int)
	}

	cursor := 0
	if prev.Sport == sport {
		cursor = prev.Cursor[sport] % len(packs)
		if more {
			cursor = (cursor + 1) % len(packs)
		}
	}
	next.Cursor[sport] = cursor

	var b strings.Builder
	b.WriteString(lang.Pick(
		"🏋️ "+title(sport)+" drills (set "+strconv.Itoa(cursor+1)+"/"+strconv.Itoa(len(packs))+"):\n",
		"🏋️ "+title(sport)+" drills (set "+strconv.Itoa(cursor+1)+" of "+strconv.Itoa(len(packs))+"):\n",
	))
	writeBullets(&b, packs[cursor], len(packs[cursor]))
	b.WriteString(lang.Pick("Aur chahiye to \"more\" likhein.\n", "Say \"more\" for another set.\n"))
	b.WriteString(TrainingDisclaimer(lang))
	return b.String(), next
}

// AskTrainingSport asks which sport the user wants drills for.
func AskTrainingSport(lang language.Lang) string {
	return lang.Pick(
		"Kis sport ki training tips chahiye? (football/cricket/basketball/badminton/tennis/volleyball)",
		"Which sport do you want drills for? (football/cricket/basketball/badminton/tennis/volleyball)",
	)
}

func writeBullets(b *strings.Builder, items []string, max int) {
	for i, it := range items {
		if i >= max {
			break
		}
		b.WriteString("• ")
		b.WriteString(it)
		b.WriteString("\n")
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
