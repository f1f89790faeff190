package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	IntentQuit        // Esc, q, Ctrl+C
	IntentTogglePause // space, p
	IntentToggleMute  // m
	IntentResize      // terminal resize event
)

func (t IntentType) String() string {
	switch t {
	case IntentNone:
		return "none"
	case IntentQuit:
		return "quit"
	case IntentTogglePause:
		return "toggle_pause"
	case IntentToggleMute:
		return "toggle_mute"
	case IntentResize:
		return "resize"
	}
	return "unknown"
}

// actionRegistry maps keymap action names to intents
var actionRegistry = map[string]IntentType{
	"none":         IntentNone, // unbind sentinel
	"quit":         IntentQuit,
	"toggle_pause": IntentTogglePause,
	"toggle_mute":  IntentToggleMute,
}
