// Package workshop exposes ad-hoc dependency resolution over HTTP.
//
// It lets clients resolve any workshop item into its transitive dependency
// graph without touching a profile, which is how the UI previews a mod
// before a profile is created from it.
package workshop
