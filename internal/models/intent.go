package models

// Intent is the classified purpose of a user utterance.
type Intent string

// The closed set of intents.
const (
	IntentFindMatches Intent = "find_matches"
	IntentTicketPrice Intent = "ticket_price"
	IntentPurpose     Intent = "purpose"
	IntentHowToUse    Intent = "how_to_use"
	IntentDistance    Intent = "distance"
	IntentReminder    Intent = "reminder"
	IntentHistory     Intent = "history"
	IntentTraining    Intent = "training"
	IntentChitchat    Intent = "chitchat"
	IntentFallback    Intent = "fallback"
)

// Intents lists every label in a stable order.
var Intents = []Intent{
	IntentFindMatches, IntentTicketPrice, IntentPurpose, IntentHowToUse, IntentDistance,
	IntentReminder, IntentHistory, IntentTraining, IntentChitchat, IntentFallback,
}
