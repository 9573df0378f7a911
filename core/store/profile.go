package store

import (
	"sort"
	"time"

	"armory/core/workshop"
)

// Profile binds a workshop root, a scenario, and overrides to one
// supervisable server instance. Profiles are owned exclusively by the Store
// and mutated only through store operations.
type Profile struct {
	// ID is the generated stable identifier.
	ID string `json:"id"`

	// DisplayName is the human-facing profile name, also used as the
	// server name during synthesis.
	DisplayName string `json:"display_name"`

	// WorkshopURL is the user-supplied workshop URL the profile was
	// created from.
	WorkshopURL string `json:"workshop_url"`

	// RootModID is the workshop identifier extracted from WorkshopURL.
	RootModID string `json:"root_mod_id"`

	// SelectedScenarioID is the scenario the server runs; must appear in
	// the resolved graph's scenario list at synthesis time.
	SelectedScenarioID string `json:"selected_scenario_id,omitempty"`

	// MaxDepth is the dependency resolution depth for this profile.
	MaxDepth int `json:"max_depth"`

	// BlockOnDrift makes Start fail while unacknowledged drift exists.
	BlockOnDrift bool `json:"block_on_drift"`

	// LoadSessionSave passes -loadSessionSave to the server executable.
	LoadSessionSave bool `json:"load_session_save,omitempty"`

	// Presets are named subsets of the dependency set.
	Presets []ModPreset `json:"presets,omitempty"`

	// ActivePreset names the preset applied during synthesis, empty for
	// the full dependency set.
	ActivePreset string `json:"active_preset,omitempty"`

	// OptionalModIDs are extra mods appended to the synthesized list.
	OptionalModIDs []string `json:"optional_mod_ids,omitempty"`

	// OptionalPackageIDs pull in shared mod packages by id.
	OptionalPackageIDs []string `json:"optional_package_ids,omitempty"`

	// DisabledModIDs are removed from the synthesized list without
	// touching the stored snapshot.
	DisabledModIDs []string `json:"disabled_mod_ids,omitempty"`

	// Overrides are config field overrides (dot path -> value).
	Overrides map[string]string `json:"overrides,omitempty"`

	// ServerExeOverride, WorkDirOverride and ProfileDirOverride replace
	// the corresponding global paths for this profile when non-empty.
	ServerExeOverride  string `json:"server_exe_override,omitempty"`
	WorkDirOverride    string `json:"work_dir_override,omitempty"`
	ProfileDirOverride string `json:"profile_dir_override,omitempty"`

	// Snapshot is the last-resolved dependency graph, nil before the
	// first refresh. Replaced only by Refresh.
	Snapshot *workshop.Graph `json:"snapshot,omitempty"`

	// LastResolvedAt is when Snapshot was committed.
	LastResolvedAt *time.Time `json:"last_resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModPreset is a named subset of a profile's dependency set, with optional
// per-mod force flags that win over the subset selection.
type ModPreset struct {
	Name   string          `json:"name"`
	ModIDs []string        `json:"mod_ids"`
	Force  map[string]bool `json:"force,omitempty"`
}

// ModPackage is a reusable named bundle of mod ids shared across profiles.
type ModPackage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ModIDs    []string  `json:"mod_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preset returns the named preset, or nil.
func (p *Profile) Preset(name string) *ModPreset {
	for i := range p.Presets {
		if p.Presets[i].Name == name {
			return &p.Presets[i]
		}
	}
	return nil
}

// EffectiveDisabledModIDs computes the set of mod ids excluded from
// synthesis: everything outside the active preset (if one is set), adjusted
// by the preset's force flags, plus the profile's explicit disabled list.
// The result is sorted so synthesis inputs stay deterministic.
func (p *Profile) EffectiveDisabledModIDs(graph *workshop.Graph) []string {
	disabled := make(map[string]struct{})

	if preset := p.Preset(p.ActivePreset); preset != nil && graph != nil {
		allowed := make(map[string]struct{}, len(preset.ModIDs))
		for _, id := range preset.ModIDs {
			allowed[id] = struct{}{}
		}
		for _, id := range graph.DependencyIDs {
			if _, ok := allowed[id]; !ok {
				disabled[id] = struct{}{}
			}
		}
		for id, enabled := range preset.Force {
			if enabled {
				delete(disabled, id)
			} else {
				disabled[id] = struct{}{}
			}
		}
	}

	for _, id := range p.DisabledModIDs {
		disabled[id] = struct{}{}
	}

	ids := make([]string, 0, len(disabled))
	for id := range disabled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DriftReport describes the difference between a profile's stored snapshot
// and a fresh resolution.
type DriftReport struct {
	ProfileID string `json:"profile_id"`

	// AddedIDs are present upstream but not in the snapshot, in fresh
	// discovery order.
	AddedIDs []string `json:"added_ids"`

	// RemovedIDs are in the snapshot but gone upstream, in snapshot order.
	RemovedIDs []string `json:"removed_ids"`

	// ScenarioMissing is true when the profile's selected scenario no
	// longer appears in the fresh scenario list.
	ScenarioMissing bool `json:"scenario_missing"`

	CheckedAt time.Time `json:"checked_at"`
}

// HasDrift reports whether anything changed.
func (r *DriftReport) HasDrift() bool {
	return len(r.AddedIDs) > 0 || len(r.RemovedIDs) > 0 || r.ScenarioMissing
}

// ChangedIDs returns added then removed ids, for error messages that must
// name exactly which mods changed.
func (r *DriftReport) ChangedIDs() []string {
	ids := make([]string, 0, len(r.AddedIDs)+len(r.RemovedIDs))
	ids = append(ids, r.AddedIDs...)
	ids = append(ids, r.RemovedIDs...)
	return ids
}
