// Package profiles manages server profiles over HTTP.
//
// A profile binds a workshop root mod, a selected scenario and configuration
// overrides into one supervisable server. The feature covers the profile
// CRUD surface, snapshot refresh, drift inspection, configuration preview
// and generation, and the shared mod package registry.
//
// Deleting a profile cascades: the running server process (if any) is
// stopped first, then the persisted record, the generated configuration
// artifact and the mirrored copy are removed.
package profiles
