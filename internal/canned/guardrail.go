package canned

import (
	"regexp"
	"strings"

	"github.com/sportrium/assistant/internal/language"
)

var healthWords = regexp.MustCompile(`(?i)\b(pain|painful|injury|injured|injuries|hurt|hurts|dard|chot|moch|sprain|sprained|swelling|sujan|doctor|medicine|medical|dawai|dawa|fracture|knee|ghutna|ghutne|ankle|takhna|back ?pain|kamar|cramp|cramps|bleeding|fever|bukhar|treatment|ilaj|ilaaj|physio|tablet|painkiller|diet plan|supplement|steroid)\b`)

// healthBullets caps the drill items attached to a health refusal.
const healthBullets = 3

// IsHealthQuestion reports whether text asks for medical or injury advice.
func IsHealthQuestion(text string) bool {
	return healthWords.MatchString(text)
}

// HealthReply refuses medical guidance. When sport is known and has drills, up to three
// bullets from its first drill pack are attached as safe general practice.
func HealthReply(sport string, lang language.Lang) string {
	var b strings.Builder
	b.WriteString(lang.Pick(
		"Main medical advice nahi de sakta. 🙏 Dard ya injury ho to please doctor ya physiotherapist se rujoo karein aur us waqt tak khel se aaram karein.",
		"I can't give medical advice. 🙏 For pain or injury please see a doctor or physiotherapist, and rest until you're cleared to play.",
	))
	if pack := FirstPack(sport); len(pack) > 0 {
		b.WriteString(lang.Pick(
			"\nJab doctor ijazat de, to "+sport+" ke liye halki general practice:\n",
			"\nOnce you're cleared, some light general "+sport+" practice:\n",
		))
		writeBullets(&b, pack, healthBullets)
	}
	return strings.TrimRight(b.String(), "\n")
}
