package runner

import (
	"fmt"
	"strings"

	"armory/core/store"
)

// InvalidTransitionError is returned when an operation is rejected by the
// state machine.
type InvalidTransitionError struct {
	Op    string
	State State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.State)
}

// DriftBlockedError is returned when a profile in strict mode tries to
// start while unacknowledged dependency drift exists. It names exactly
// which mod ids changed; refresh and re-synthesize to clear it.
type DriftBlockedError struct {
	Report *store.DriftReport
}

func (e *DriftBlockedError) Error() string {
	var parts []string
	if len(e.Report.AddedIDs) > 0 {
		parts = append(parts, "added "+strings.Join(e.Report.AddedIDs, ", "))
	}
	if len(e.Report.RemovedIDs) > 0 {
		parts = append(parts, "removed "+strings.Join(e.Report.RemovedIDs, ", "))
	}
	if e.Report.ScenarioMissing {
		parts = append(parts, "selected scenario no longer available")
	}
	return "start blocked by dependency drift: " + strings.Join(parts, "; ")
}
