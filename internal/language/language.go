// Package language guesses whether a user writes in Urdu (script or Roman) or English,
// so replies can mirror it.
package language

import (
	"regexp"
	"unicode"
)

// Lang is a reply language.
type Lang string

const (
	English Lang = "en"
	Urdu    Lang = "ur"
)

var romanUrdu = regexp.MustCompile(`(?i)\b(aaj|aj|kal|kl|parso|hafta|haftay|itwaar|jumma|shanba|khel|mein|mai|hai|hain|kya|koi|kab|kahan|kaise|kese|karun|karna|chahiye|chahye|nahi|nahin|bhi|aur|kitna|kitni|kitne|batao|bata|dein|karo|ka|ki|ke|se|pe|par|yaar|bhai|acha|accha|shukriya|salam|assalam|kuch|wala|wali|dikhao)\b`)

// Detect returns Urdu for Arabic-script text or Roman-Urdu vocabulary, else English.
func Detect(text string) Lang {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return Urdu
		}
	}
	if romanUrdu.MatchString(text) {
		return Urdu
	}
	return English
}

// Pick returns the variant for lang.
func (l Lang) Pick(ur, en string) string {
	if l == Urdu {
		return ur
	}
	return en
}
