package nlu

import "strings"

// Intent is a canonical label for what the user wants from the bot.
type Intent string

const (
	IntentGreeting           Intent = "GREETING"
	IntentAppointmentRequest Intent = "APPOINTMENT_REQUEST"
	IntentAppointmentDetails Intent = "APPOINTMENT_DETAILS"
	IntentOther              Intent = "OTHER"
)

// intentSynonyms maps raw model labels, including the misspellings models
// actually produce, to canonical intents.
var intentSynonyms = map[string]Intent{
	"GREETING":            IntentGreeting,
	"APPOINTMENT_REQUEST": IntentAppointmentRequest,
	"REQUEST_APPOINTMENT": IntentAppointmentRequest,
	"APPOINTMENT_DETAILS": IntentAppointmentDetails,
	"APPOINT_DETAILS":     IntentAppointmentDetails,
	"OTHER":               IntentOther,
}

// NormalizeIntent maps a raw model label to its canonical intent.
// Anything unrecognized is treated as OTHER.
func NormalizeIntent(raw string) Intent {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if intent, ok := intentSynonyms[label]; ok {
		return intent
	}
	return IntentOther
}
