package agent

// State is the shared conversation state for one booking conversation.
// Each turn mutates it in place; between turns it is persisted by the host.
// Empty string slot values mean "not yet known".
type State struct {
	UserMessages []string `json:"user_messages"`
	BotMessages  []string `json:"bot_messages"`

	Date  string `json:"date"`
	Time  string `json:"time"`
	Email string `json:"email"`

	Confirmed            bool   `json:"confirmed"`
	LastUserIntent       string `json:"last_user_intent"`
	AwaitingUserResponse bool   `json:"awaiting_user_response"`
	GreetingSent         bool   `json:"greeting_sent"`
}

// NewState returns an empty conversation state.
func NewState() *State {
	return &State{
		UserMessages: []string{},
		BotMessages:  []string{},
	}
}

// BeginTurn records a new user message and arms the state for processing.
// Pending bot replies from the previous turn are dropped; the host is
// expected to have delivered them already.
func (s *State) BeginTurn(message string) {
	s.UserMessages = append(s.UserMessages, message)
	s.BotMessages = []string{}
	s.AwaitingUserResponse = false
}

// AddBotMessage queues a reply for the user.
func (s *State) AddBotMessage(msg string) {
	s.BotMessages = append(s.BotMessages, msg)
}

// LastUserMessage returns the most recent user message, or "" if none.
func (s *State) LastUserMessage() string {
	if len(s.UserMessages) == 0 {
		return ""
	}
	return s.UserMessages[len(s.UserMessages)-1]
}

// SlotsComplete reports whether date, time and email are all known.
func (s *State) SlotsComplete() bool {
	return s.Date != "" && s.Time != "" && s.Email != ""
}

// FlushReplies returns the queued bot messages and clears the queue.
func (s *State) FlushReplies() []string {
	replies := s.BotMessages
	s.BotMessages = []string{}
	return replies
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	cp := *s
	cp.UserMessages = append([]string(nil), s.UserMessages...)
	cp.BotMessages = append([]string(nil), s.BotMessages...)
	return &cp
}
