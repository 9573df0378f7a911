package runner

import "time"

// State is the supervisor state of one profile's server process.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateCrashed  State = "crashed"
)

// startable reports whether Start may proceed from this state.
func (s State) startable() bool {
	return s == StateStopped || s == StateCrashed
}

// stoppable reports whether Stop may proceed from this state.
func (s State) stoppable() bool {
	return s == StateStarting || s == StateRunning
}

// Status is a point-in-time view of one profile's run state. Reading it
// never blocks on the child process.
type Status struct {
	ProfileID string `json:"profile_id"`
	State     State  `json:"state"`

	// PID is set while a process exists.
	PID int `json:"pid,omitempty"`

	// ExitCode is set in the Crashed state.
	ExitCode *int `json:"exit_code,omitempty"`

	// StartedAt is set from Starting onwards.
	StartedAt *time.Time `json:"started_at,omitempty"`
}
