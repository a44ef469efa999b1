package broker

import "github.com/nyathea/vanilla-OSX/protocol"

// State is the lifecycle state of the broker's single session.
type State int

const (
	// Idle means no association is in place.
	Idle State = iota
	// Scanning is a transient state entered and left within a single
	// command.
	Scanning
	// Associated means the provider holds a link to the target network.
	Associated
	// ShuttingDown is terminal. No further commands are processed.
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Scanning:
		return "SCANNING"
	case Associated:
		return "ASSOCIATED"
	case ShuttingDown:
		return "SHUTTING DOWN"
	default:
		return "INVALID STATE"
	}
}

// Session tracks the broker's Wi-Fi lifecycle. There is exactly one per
// broker, constructed at startup and mutated only by the event loop.
type Session struct {
	state       State
	currentSsid string
}

func NewSession() *Session {
	return &Session{
		state: Idle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// CurrentSsid returns the associated network's name, or an empty string.
func (s *Session) CurrentSsid() string {
	return s.currentSsid
}

// allows reports whether a command is legal in the current state. Commands
// arriving while shutting down are never legal; the broker additionally
// ignores them without a reply.
func (s *Session) allows(code protocol.ControlCode) bool {
	if s.state == ShuttingDown {
		return false
	}

	switch code {
	case protocol.CCSync:
		return s.state == Idle || s.state == Associated
	case protocol.CCConnect:
		return s.state == Idle
	case protocol.CCUnbind, protocol.CCQuit:
		return true
	default:
		return false
	}
}

// associate records a successfully established link.
func (s *Session) associate(ssid string) {
	s.state = Associated
	s.currentSsid = ssid
}

// reset forces the session back to Idle with no recorded network.
func (s *Session) reset() {
	s.state = Idle
	s.currentSsid = ""
}
