package profiles

import (
	"context"
	"errors"
	"fmt"

	"armory/core/confgen"
	"armory/core/runner"
	"armory/core/store"
	"armory/core/workshop"

	"go.uber.org/zap"
)

// Supervisor is the service's view of the process supervisor, used for the
// delete cascade.
type Supervisor interface {
	Status(profileID string) runner.Status
	Stop(ctx context.Context, profileID string) (runner.Status, error)
}

// ArtifactMirror removes mirrored config artifacts; nil disables mirroring.
type ArtifactMirror interface {
	Remove(ctx context.Context, profileID string) error
}

// Service handles profile operations.
type Service struct {
	store      *store.Store
	generator  *confgen.Generator
	supervisor Supervisor
	mirror     ArtifactMirror
	logger     *zap.Logger
}

// NewService creates a new profile service. mirror may be nil.
func NewService(st *store.Store, generator *confgen.Generator, supervisor Supervisor, mirror ArtifactMirror, logger *zap.Logger) *Service {
	return &Service{
		store:      st,
		generator:  generator,
		supervisor: supervisor,
		mirror:     mirror,
		logger:     logger,
	}
}

// Create builds a new profile from a workshop URL.
func (s *Service) Create(in store.CreateInput) (*store.Profile, error) {
	if in.MaxDepth > workshop.MaxDepthCeiling {
		return nil, fmt.Errorf("%w: %d", workshop.ErrDepthOutOfRange, in.MaxDepth)
	}
	return s.store.Create(in)
}

// List returns all profiles.
func (s *Service) List() ([]*store.Profile, error) {
	return s.store.List()
}

// Get returns one profile.
func (s *Service) Get(id string) (*store.Profile, error) {
	return s.store.Get(id)
}

// UpdateInput carries a partial profile update; nil fields stay untouched.
type UpdateInput struct {
	DisplayName        *string            `json:"display_name"`
	SelectedScenarioID *string            `json:"selected_scenario_id"`
	MaxDepth           *int               `json:"max_depth"`
	BlockOnDrift       *bool              `json:"block_on_drift"`
	LoadSessionSave    *bool              `json:"load_session_save"`
	Presets            *[]store.ModPreset `json:"presets"`
	ActivePreset       *string            `json:"active_preset"`
	OptionalModIDs     *[]string          `json:"optional_mod_ids"`
	OptionalPackageIDs *[]string          `json:"optional_package_ids"`
	DisabledModIDs     *[]string          `json:"disabled_mod_ids"`
	Overrides          *map[string]string `json:"overrides"`
	ServerExeOverride  *string            `json:"server_exe_override"`
	WorkDirOverride    *string            `json:"work_dir_override"`
	ProfileDirOverride *string            `json:"profile_dir_override"`
}

// Update applies a partial update and persists the profile.
func (s *Service) Update(id string, in UpdateInput) (*store.Profile, error) {
	profile, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if in.MaxDepth != nil {
		if *in.MaxDepth < 1 || *in.MaxDepth > workshop.MaxDepthCeiling {
			return nil, fmt.Errorf("%w: %d", workshop.ErrDepthOutOfRange, *in.MaxDepth)
		}
		profile.MaxDepth = *in.MaxDepth
	}
	if in.Overrides != nil {
		for path := range *in.Overrides {
			if !confgen.IsOverridablePath(path) {
				return nil, fmt.Errorf("%w: unknown field %q", confgen.ErrInvalidOverride, path)
			}
		}
		profile.Overrides = *in.Overrides
	}
	if in.ActivePreset != nil {
		if *in.ActivePreset != "" {
			presets := profile.Presets
			if in.Presets != nil {
				presets = *in.Presets
			}
			if !presetExists(presets, *in.ActivePreset) {
				return nil, fmt.Errorf("preset %q does not exist", *in.ActivePreset)
			}
		}
		profile.ActivePreset = *in.ActivePreset
	}

	if in.DisplayName != nil {
		profile.DisplayName = *in.DisplayName
	}
	if in.SelectedScenarioID != nil {
		profile.SelectedScenarioID = *in.SelectedScenarioID
	}
	if in.BlockOnDrift != nil {
		profile.BlockOnDrift = *in.BlockOnDrift
	}
	if in.LoadSessionSave != nil {
		profile.LoadSessionSave = *in.LoadSessionSave
	}
	if in.Presets != nil {
		profile.Presets = *in.Presets
	}
	if in.OptionalModIDs != nil {
		profile.OptionalModIDs = *in.OptionalModIDs
	}
	if in.OptionalPackageIDs != nil {
		profile.OptionalPackageIDs = *in.OptionalPackageIDs
	}
	if in.DisabledModIDs != nil {
		profile.DisabledModIDs = *in.DisabledModIDs
	}
	if in.ServerExeOverride != nil {
		profile.ServerExeOverride = *in.ServerExeOverride
	}
	if in.WorkDirOverride != nil {
		profile.WorkDirOverride = *in.WorkDirOverride
	}
	if in.ProfileDirOverride != nil {
		profile.ProfileDirOverride = *in.ProfileDirOverride
	}

	if err := s.store.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func presetExists(presets []store.ModPreset, name string) bool {
	for _, p := range presets {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Delete removes a profile. A running server is stopped first; the mirrored
// config copy is removed best-effort.
func (s *Service) Delete(ctx context.Context, id string) error {
	status := s.supervisor.Status(id)
	if status.State != runner.StateStopped && status.State != runner.StateCrashed {
		if _, err := s.supervisor.Stop(ctx, id); err != nil {
			return fmt.Errorf("stop before delete: %w", err)
		}
	}

	if err := s.store.Delete(id); err != nil {
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.Remove(ctx, id); err != nil {
			s.logger.Warn("failed to remove mirrored config",
				zap.String("profile_id", id), zap.Error(err))
		}
	}
	return nil
}

// Refresh re-resolves the profile's dependency graph and commits it as the
// new snapshot. depthExceeded reports a truncated (still committed) result.
func (s *Service) Refresh(ctx context.Context, id string) (graph *workshop.Graph, depthExceeded bool, err error) {
	graph, err = s.store.Refresh(ctx, id)
	if err != nil {
		// Truncation comes through as an informational error alongside a
		// committed graph.
		if errors.Is(err, workshop.ErrDepthExceeded) {
			return graph, true, nil
		}
		return nil, false, err
	}
	return graph, false, nil
}

// Drift compares the stored snapshot against a fresh resolution without
// committing anything.
func (s *Service) Drift(ctx context.Context, id string) (*store.DriftReport, error) {
	return s.store.CheckDrift(ctx, id)
}

// PreviewConfig synthesizes the profile's configuration without persisting.
func (s *Service) PreviewConfig(id string) ([]byte, error) {
	profile, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return s.generator.Preview(profile)
}

// GenerateConfig synthesizes and persists the configuration artifact,
// returning its path.
func (s *Service) GenerateConfig(ctx context.Context, id string) (string, error) {
	profile, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	return s.generator.GenerateFor(ctx, profile)
}

// OverridablePaths lists the config fields profiles may override.
func (s *Service) OverridablePaths() []string {
	return confgen.OverridablePaths()
}

// ListPackages returns all shared mod packages.
func (s *Service) ListPackages() ([]store.ModPackage, error) {
	return s.store.ListPackages()
}

// SavePackage creates or updates a mod package.
func (s *Service) SavePackage(pkg store.ModPackage) (*store.ModPackage, error) {
	for _, id := range pkg.ModIDs {
		if !workshop.IsValidID(id) {
			return nil, fmt.Errorf("%w: %q", workshop.ErrBadIdentifier, id)
		}
	}
	return s.store.SavePackage(pkg)
}

// DeletePackage removes a mod package.
func (s *Service) DeletePackage(id string) error {
	return s.store.DeletePackage(id)
}
