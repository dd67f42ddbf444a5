package agent

// Phase tracks where the action pipeline is within a turn.
type Phase int

const (
	// PhaseStandby is the idle state between turns.
	PhaseStandby Phase = iota
	// PhaseThinking covers the dialogue request in flight.
	PhaseThinking
	// PhaseExecuting covers the action batch being run.
	PhaseExecuting
	// PhaseExecutingDone signals the batch finished; only the action
	// worker sets it.
	PhaseExecutingDone
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseStandby:
		return "standby"
	case PhaseThinking:
		return "thinking"
	case PhaseExecuting:
		return "executing"
	case PhaseExecutingDone:
		return "executing_done"
	default:
		return "unknown"
	}
}
