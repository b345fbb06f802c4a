package cart

// State is the cart's activity phase.
//
//	Idle --mutation--> Mutating --2xx--> Refreshing --response--> Idle
//	                            \--error--> Idle
//
// A bare Refresh goes Idle -> Refreshing -> Idle.
type State int

const (
	Idle State = iota
	Mutating
	Refreshing
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Mutating:
		return "mutating"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}
