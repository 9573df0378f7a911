// Package store owns profile records and their persisted lifecycle.
//
// Each profile is one JSON document under the data directory, written
// atomically (write-to-temp-then-rename) so a crash mid-write never leaves a
// half-written record behind. Writes are serialized per profile id; two
// concurrent refreshes of the same profile cannot interleave their snapshot
// writes.
//
// The store is also the owner of resolution-aware state: Refresh runs the
// resolver and commits the result as the profile's last-resolved snapshot,
// CheckDrift runs the resolver without committing and reports the id-set
// difference against the stored snapshot. A snapshot is only ever replaced
// by an explicit Refresh, never implicitly during reads.
package store
