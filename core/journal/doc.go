// Package journal persists run lifecycle events.
//
// Every start, stop and crash of a supervised server process is recorded as
// a RunEvent row, giving operators a history of what happened to a profile
// across restarts of the manager itself. The journal is an optional feature:
// when no database is configured the supervisor runs without a recorder and
// nothing is written.
//
// Writes are fire-and-forget. A failed insert is logged and dropped; the
// journal must never block or fail a server start or stop.
package journal
