package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentSelect             // payload carries the duration text
	IntentStart
	IntentCancel
	IntentReset
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentSelect:
		return "select"
	case IntentStart:
		return "start"
	case IntentCancel:
		return "cancel"
	case IntentReset:
		return "reset"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user command.
type Intent struct {
	Type    IntentType
	Payload string

	// Hour, Minute and Second are filled for IntentSelect.
	Hour, Minute, Second int
}
