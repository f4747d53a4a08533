package bidstream

// State is the connection lifecycle of a Client.
// Connecting -> Open -> {Closed, Errored}; a reconnect moves Open back to Connecting.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events can be delivered
func (s State) Terminal() bool {
	return s == StateClosed || s == StateErrored
}
