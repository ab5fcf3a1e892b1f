// Package canned holds the assistant's fixed answers: greetings, the health guardrail,
// sport history, paginated training drills and the static product replies.
package canned

import (
	"regexp"

	"github.com/sportrium/assistant/internal/language"
)

// Greetings must be the whole message (plus an optional address like "bhai" or "there").
var (
	salamFamily = regexp.MustCompile(`(?i)^\s*(as+ala+m+\s*(?:[ou]\s*)?alaikum|as+ala+m|salaa?m|slm|aoa|wa?alaikum ?(as)?salam|السلام علیکم|سلام)(\s+(bhai|ji|dost|sir|everyone|sab))?\s*[!.?]*\s*$`)
	hiFamily    = regexp.MustCompile(`(?i)^\s*(hi+|hello+|hey+|helo|hola|yo|good (morning|afternoon|evening))(\s+(there|bhai|ji|dost|sir|bot|sportrium))?\s*[!.?]*\s*$`)
	thanks      = regexp.MustCompile(`(?i)^\s*(thanks|thank you|thx|shukriya|shukria|jazakallah|ok thanks|acha shukriya)(\s+(bhai|ji|dost|sir|a lot))?\s*[!.?]*\s*$`)
)

const capabilities = "matches (city/sport/date), tickets, distance/directions, training drills & sport history"

// Greeting answers a bare salutation or thanks. ok is false for anything else.
func Greeting(text string, lang language.Lang) (reply string, ok bool) {
	switch {
	case salamFamily.MatchString(text):
		return "Wa alaikum salam! 👋 Main Sportrium assistant hoon — " + capabilities +
			" mein madad kar sakta hoon. Batayein, kis city mein match dhoondhun?", true
	case hiFamily.MatchString(text):
		return lang.Pick(
			"Hello! 👋 Main Sportrium assistant hoon — "+capabilities+". Kis city ka match dekhna hai?",
			"Hi there! 👋 I'm the Sportrium assistant — ask me about "+capabilities+". Which city are you in?",
		), true
	case thanks.MatchString(text):
		return lang.Pick(
			"Koi baat nahi! 🙌 Aur kuch chahiye to poochhiye — matches, tickets, distance ya drills.",
			"You're welcome! 🙌 Ask me anytime about matches, tickets, distance or drills.",
		), true
	}
	return "", false
}
