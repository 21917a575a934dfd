package agent

import "github.com/clinicassist/appointment-agent/internal/nlu"

// Stage identifies one node of the booking dialogue flow.
type Stage string

const (
	StageGreetUser         Stage = "greet_user"
	StageCollectDetails    Stage = "collect_details"
	StageConfirmBooking    Stage = "confirm_booking"
	StageCreateAppointment Stage = "create_appointment"
	StageEnd               Stage = "end"
)

// Next returns the stage that follows the given one for the current state.
// StageEnd marks the turn boundary, not process exit; the next user message
// starts again from StageGreetUser.
func Next(stage Stage, st *State) Stage {
	switch stage {
	case StageGreetUser:
		if st.LastUserIntent == string(nlu.IntentAppointmentDetails) {
			return StageCollectDetails
		}
		return StageEnd
	case StageCollectDetails:
		if st.SlotsComplete() {
			return StageConfirmBooking
		}
		return StageEnd
	case StageConfirmBooking:
		if st.Confirmed {
			return StageCreateAppointment
		}
		return StageEnd
	case StageCreateAppointment:
		return StageEnd
	default:
		return StageEnd
	}
}
