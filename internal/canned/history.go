package canned

import "github.com/sportrium/assistant/internal/language"

type blurb struct{ ur, en string }

var histories = map[string]blurb{
	"football": {
		"Modern football 1863 mein England mein Football Association ke rules se organize hua. Aaj ye duniya ka sab se popular khel hai.",
		"Modern football was codified in England in 1863 with the Football Association's rules. Today it is the world's most popular sport.",
	},
	"cricket": {
		"Cricket 16th century England se shuru hua; pehla Test match 1877 mein Australia aur England ke darmiyan khela gaya. Pakistan 1992 mein World Cup jeeta.",
		"Cricket began in 16th-century England; the first Test match was played between Australia and England in 1877. Pakistan won the World Cup in 1992.",
	},
	"basketball": {
		"Basketball 1891 mein James Naismith ne Springfield, USA mein invent kiya, peach baskets ke saath.",
		"Basketball was invented by James Naismith in Springfield, USA in 1891, using peach baskets as hoops.",
	},
	"badminton": {
		"Badminton ki roots British India ke Poona mein hain; 1873 mein England ke Badminton House se iska naam para.",
		"Badminton has roots in Poona in British India and takes its name from Badminton House in England, where it was played in 1873.",
	},
	"tennis": {
		"Lawn tennis 1870s mein England mein shuru hua; pehla Wimbledon 1877 mein hua.",
		"Lawn tennis emerged in England in the 1870s; the first Wimbledon championship was held in 1877.",
	},
	"volleyball": {
		"Volleyball 1895 mein William G. Morgan ne Holyoke, USA mein banaya, basketball ke halka alternative ke taur par.",
		"Volleyball was created in 1895 by William G. Morgan in Holyoke, USA, as a lighter alternative to basketball.",
	},
}

// HasHistory reports whether a blurb exists for sport.
func HasHistory(sport string) bool {
	_, ok := histories[sport]
	return ok
}

// History returns the fixed blurb for sport, or asks which sport when unknown.
func History(sport string, lang language.Lang) string {
	h, ok := histories[sport]
	if !ok {
		return AskHistorySport(lang)
	}
	return lang.Pick(h.ur+" Kisi aur sport ki history chahiye?", h.en+" Want another sport's history?")
}

// AskHistorySport asks which sport's history the user wants.
func AskHistorySport(lang language.Lang) string {
	return lang.Pick(
		"Kis sport ki history chahiye? (football/cricket/basketball/badminton/tennis/volleyball)",
		"Which sport's history would you like? (football/cricket/basketball/badminton/tennis/volleyball)",
	)
}
