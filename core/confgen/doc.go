// Package confgen synthesizes runnable dedicated-server configuration
// documents from a baseline template, a resolved dependency graph, and
// profile-level overrides.
//
// Synthesis is a pure function: identical inputs always produce
// byte-identical output. This is what makes generated configs reproducible
// and lets drift detection diff them reliably. The merge order is fixed and
// low-to-high precedence:
//
//  1. baseline template fields
//  2. mod list derived from the dependency graph (discovery order)
//  3. scenario selection
//  4. explicit profile overrides
//
// Overrides are not a free-form JSON overlay. Each override names a
// dot-separated field path from a fixed registry over the typed schema;
// paths outside the registry are rejected with ErrInvalidOverride so the
// precedence rules stay checkable.
package confgen
