// Package workshop resolves the dependency graph of a workshop-hosted mod.
//
// Given a root workshop identifier, the Resolver walks the dependency lists
// of every reachable item breadth-first, bounded by a maximum depth, and
// returns a deduplicated Graph in discovery order together with the scenarios
// the root item exposes.
//
// # Fetcher
//
// The resolver's only outbound dependency is the Fetcher interface:
//
//	type Fetcher interface {
//	    FetchItem(ctx context.Context, id string) (*Item, error)
//	}
//
// The production implementation (HTTPFetcher) scrapes the public workshop
// pages; tests swap in a fake. Resolution itself is side-effect free, so two
// resolutions of unchanged upstream content yield identical graphs.
//
// # Identifiers
//
// Workshop identifiers are 16 uppercase hex characters. Helpers are provided
// to extract identifiers from workshop URLs and free-form user input.
package workshop
