package canned

import "github.com/sportrium/assistant/internal/language"

// TicketPrice answers ticket/entry-fee questions.
func TicketPrice(lang language.Lang) string {
	return lang.Pick(
		"Kis match ka ticket price dekhna chahenge? Event card par 'Ticket info' ya 'TBA' likha hota hai.",
		"Which match's ticket price? The event card shows 'Ticket info' or 'TBA'.",
	)
}

// Purpose explains what the site is for.
func Purpose(lang language.Lang) string {
	return lang.Pick(
		"Sportrium ka goal hai local sports ko asaan banana: matches dekhna, teams follow/banani, reminders & tickets — sab ek jaga.",
		"Sportrium helps you discover local matches, follow/create teams, and manage reminders & tickets in one place.",
	)
}

// HowToUse gives the short product walkthrough.
func HowToUse(lang language.Lang) string {
	return lang.Pick(
		"Simple: 1) Schedule par city/sport/date select karein. 2) Match card khol kar details dekhein. 3) 'Remind me' ya 'Buy tickets'. 4) 'Create a Team' se apna event host kar sakte hain.",
		"Easy: 1) Go to Schedule → choose city/sport/date, 2) open a match card, 3) use 'Remind me' or 'Buy tickets', 4) 'Create a Team' to host events.",
	)
}

// Reminder explains that reminders need a login and offers to start one.
func Reminder(lang language.Lang) string {
	return lang.Pick(
		"Reminder lagane ke liye login chahiye. Login karun?",
		"You need to be logged in to set a reminder. Want to log in?",
	)
}

// Clarify enumerates the supported help categories.
func Clarify(lang language.Lang) string {
	return lang.Pick(
		"Main in cheezon mein madad kar sakta hoon:\n• Matches/fixtures (city, sport, date)\n• Ticket info\n• Distance aur Google Maps link\n• Training drills aur sport history\nAap kis cheez ke bare mein poochna chahte hain?",
		"I can help with:\n• Matches/fixtures (city, sport, date)\n• Ticket info\n• Distance and a Google Maps link\n• Training drills and sport history\nWhat would you like to know?",
	)
}

// AskCity asks for the missing city slot.
func AskCity(lang language.Lang) string {
	return lang.Pick(
		"City bata dein (e.g., Karachi/Lahore/Islamabad), main results turant dikha dun.",
		"Please tell me the city (e.g., Karachi/Lahore/Islamabad) and I'll show the fixtures.",
	)
}

// AskSport asks for the missing sport slot.
func AskSport(lang language.Lang) string {
	return lang.Pick(
		"Kis sport ke matches? (football/cricket/basketball/badminton/tennis)",
		"Which sport? (football/cricket/basketball/badminton/tennis)",
	)
}

// ProviderUnavailable is shown when every generative provider failed this turn.
func ProviderUnavailable(lang language.Lang) string {
	return lang.Pick(
		"Sorry, abhi reply nahi bana saka. Thori der baad koshish karein 🙏",
		"Sorry, I couldn't put a reply together right now. Please try again shortly 🙏",
	)
}
