// Package runner supervises dedicated-server processes, one per profile.
//
// Each profile owns at most one child process, guarded by a per-profile
// state machine:
//
//	Stopped -> Starting -> Running -> Stopping -> Stopped
//
// with Starting|Running -> Crashed on unexpected exit. The state value is
// the lock: Start is a no-op unless the state is Stopped or Crashed, Stop is
// rejected unless Starting or Running. Crashed is terminal until the next
// Start, which leaves it exactly like Stopped does.
//
// Before launching, the runner re-checks the profile's dependency drift and,
// for profiles that opted into strict mode, refuses to start while
// unacknowledged drift exists — the error names exactly which mod ids
// changed.
//
// The child's stdout and stderr are merged into a per-instance log hub:
// subscribers receive lines in arrival order, a new subscriber sees only
// lines published after it attached unless it asks for a bounded backlog,
// and a subscriber that stops draining loses lines without affecting the
// child or other subscribers.
package runner
