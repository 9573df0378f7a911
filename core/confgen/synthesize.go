package confgen

import (
	"encoding/json"
	"errors"
	"fmt"

	"armory/core/workshop"
)

var (
	// ErrMissingScenario means the selected scenario id is not in the
	// dependency graph's scenario list.
	ErrMissingScenario = errors.New("selected scenario not present in dependency graph")

	// ErrInvalidOverride means an override references a field the schema
	// does not recognize, or carries a value of the wrong kind.
	ErrInvalidOverride = errors.New("invalid override")
)

// Inputs bundles everything synthesis depends on. Two Inputs values with
// equal contents always synthesize byte-identical documents.
type Inputs struct {
	// Graph is the resolved dependency graph. Its discovery order defines
	// the emitted mod order.
	Graph *workshop.Graph

	// ScenarioID selects the scenario; it must appear in Graph.Scenarios.
	ScenarioID string

	// DisplayName, when non-empty, overrides the server name.
	DisplayName string

	// ExtraModIDs are appended after the graph's mods (profile extras and
	// package mods), deduplicated against them.
	ExtraModIDs []string

	// DisabledModIDs are removed from the emitted mod list. The graph
	// itself stays canonical; disabling is presentation-layer only.
	DisabledModIDs []string

	// Overrides are profile-level field overrides, highest precedence.
	Overrides map[string]string
}

// Synthesize merges the baseline with the inputs and returns both the typed
// document and its canonical JSON encoding.
//
// Merge order, low to high precedence: baseline fields, graph-derived mod
// list, scenario selection, explicit overrides. The result is regenerated on
// demand and never hand-edited.
func Synthesize(baseline *ServerConfig, in Inputs) (*ServerConfig, []byte, error) {
	if in.Graph == nil {
		return nil, nil, fmt.Errorf("dependency graph is required")
	}
	if !in.Graph.HasScenario(in.ScenarioID) {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingScenario, in.ScenarioID)
	}

	cfg := *baseline

	cfg.Game.Mods = buildModList(in)
	cfg.Game.ScenarioID = in.ScenarioID
	if in.DisplayName != "" {
		cfg.Game.Name = in.DisplayName
	}

	if err := applyOverrides(&cfg, in.Overrides); err != nil {
		return nil, nil, err
	}

	data, err := encode(&cfg)
	if err != nil {
		return nil, nil, err
	}
	return &cfg, data, nil
}

// buildModList emits root + dependencies in discovery order, then extras,
// deduplicated, minus the disabled set.
func buildModList(in Inputs) []ModEntry {
	disabled := make(map[string]struct{}, len(in.DisabledModIDs))
	for _, id := range in.DisabledModIDs {
		disabled[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	mods := make([]ModEntry, 0, len(in.Graph.DependencyIDs)+len(in.ExtraModIDs)+1)

	appendMod := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		if _, off := disabled[id]; off {
			return
		}
		mods = append(mods, ModEntry{ModID: id})
	}

	for _, id := range in.Graph.AllModIDs() {
		appendMod(id)
	}
	for _, id := range in.ExtraModIDs {
		appendMod(id)
	}
	return mods
}

// encode produces the canonical JSON form: two-space indentation, trailing
// newline, field order fixed by the schema. Do not change this casually;
// byte-identical output is what drift diffing relies on.
func encode(cfg *ServerConfig) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode server config: %w", err)
	}
	return append(data, '\n'), nil
}
