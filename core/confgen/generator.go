package confgen

import (
	"context"
	"errors"
	"fmt"

	"armory/core/storage"
	"armory/core/store"

	"go.uber.org/zap"
)

// ErrNoSnapshot means the profile was never refreshed; there is no
// dependency graph to synthesize from.
var ErrNoSnapshot = errors.New("profile has no resolved snapshot")

// Generator turns a profile into its persisted configuration artifact. It is
// what the supervisor calls right before every launch, so the artifact on
// disk always reflects the current snapshot and overrides.
type Generator struct {
	store  *store.Store
	mirror *storage.Mirror
	logger *zap.Logger
}

// NewGenerator creates a generator. mirror may be nil to disable mirroring.
func NewGenerator(st *store.Store, mirror *storage.Mirror, logger *zap.Logger) *Generator {
	return &Generator{store: st, mirror: mirror, logger: logger}
}

// Preview synthesizes the profile's configuration without persisting it.
func (g *Generator) Preview(profile *store.Profile) ([]byte, error) {
	_, data, err := g.synthesize(profile)
	return data, err
}

// GenerateFor synthesizes the profile's configuration, writes it atomically
// under the store's configs directory and returns the artifact path. When a
// mirror is configured the payload is also uploaded; mirror failures degrade
// to a warning since the local file is the one launched with.
func (g *Generator) GenerateFor(ctx context.Context, profile *store.Profile) (string, error) {
	_, data, err := g.synthesize(profile)
	if err != nil {
		return "", err
	}

	path, err := g.store.WriteGeneratedConfig(profile.ID, data)
	if err != nil {
		return "", err
	}
	g.logger.Info("config generated",
		zap.String("profile_id", profile.ID),
		zap.String("path", path),
	)

	if g.mirror != nil {
		if err := g.mirror.Put(ctx, profile.ID, data); err != nil {
			g.logger.Warn("config mirror upload failed",
				zap.String("profile_id", profile.ID),
				zap.Error(err),
			)
		}
	}
	return path, nil
}

func (g *Generator) synthesize(profile *store.Profile) (*ServerConfig, []byte, error) {
	if profile.Snapshot == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoSnapshot, profile.ID)
	}

	baseline, err := Baseline()
	if err != nil {
		return nil, nil, err
	}
	extras, err := g.store.CollectPackageModIDs(profile)
	if err != nil {
		return nil, nil, err
	}

	return Synthesize(baseline, Inputs{
		Graph:          profile.Snapshot,
		ScenarioID:     profile.SelectedScenarioID,
		DisplayName:    profile.DisplayName,
		ExtraModIDs:    extras,
		DisabledModIDs: profile.EffectiveDisabledModIDs(profile.Snapshot),
		Overrides:      profile.Overrides,
	})
}
