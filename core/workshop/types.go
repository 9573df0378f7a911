package workshop

// Item is the metadata of a single workshop item as fetched from upstream.
// Items are immutable once fetched; the resolver never mutates them.
type Item struct {
	// ID is the opaque workshop identifier (16 uppercase hex characters).
	ID string `json:"id"`

	// Name is the display name of the item.
	Name string `json:"name"`

	// Scenarios lists the playable scenarios this item exposes.
	// Only root items usually carry scenarios.
	Scenarios []Scenario `json:"scenarios,omitempty"`

	// Dependencies lists the identifiers of the item's direct dependencies.
	Dependencies []string `json:"dependencies,omitempty"`
}

// Scenario describes a playable scenario exposed by a workshop item.
type Scenario struct {
	// ID is the full scenario path, e.g. "{ABCD1234ABCD1234}Missions/Campaign.conf".
	ID string `json:"id"`

	// Name is the human-readable scenario name derived from the path.
	Name string `json:"name"`
}

// Graph is the result of one resolution run.
//
// DependencyIDs excludes the root id and contains every discovered dependency
// exactly once, in breadth-first discovery order. The ordering is stable for
// a given upstream state regardless of fetch completion order, which makes
// graphs directly comparable for drift detection.
type Graph struct {
	// RootID is the identifier the resolution started from.
	RootID string `json:"root_id"`

	// RootName is the display name of the root item.
	RootName string `json:"root_name,omitempty"`

	// Scenarios are the scenarios exposed by the root item.
	Scenarios []Scenario `json:"scenarios,omitempty"`

	// DependencyIDs are all transitively discovered dependency identifiers,
	// root excluded, deduplicated, in discovery order.
	DependencyIDs []string `json:"dependency_ids"`

	// Depth is the number of dependency levels actually expanded.
	Depth int `json:"depth"`

	// Truncated is true when edges beyond the depth limit existed and were
	// recorded but not expanded.
	Truncated bool `json:"truncated,omitempty"`

	// Notes carries non-fatal resolution diagnostics: skipped duplicate
	// edges (including cycles) and per-dependency fetch failures.
	Notes []string `json:"notes,omitempty"`
}

// HasScenario reports whether the graph's scenario list contains the given id.
func (g *Graph) HasScenario(scenarioID string) bool {
	for _, s := range g.Scenarios {
		if s.ID == scenarioID {
			return true
		}
	}
	return false
}

// AllModIDs returns the root id followed by every dependency id, preserving
// discovery order. This is the canonical mod list order used by config
// synthesis.
func (g *Graph) AllModIDs() []string {
	ids := make([]string, 0, len(g.DependencyIDs)+1)
	ids = append(ids, g.RootID)
	ids = append(ids, g.DependencyIDs...)
	return ids
}
