package driver

// Status is the position of a driver in its step state machine.
type Status int

const (
	Idle Status = iota
	Stepping
	Accepted
	Rejected
	Reached
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Reached:
		return "reached"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
