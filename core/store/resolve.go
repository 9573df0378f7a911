package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"armory/core/workshop"

	"go.uber.org/zap"
)

// Refresh resolves the profile's current root and commits the result as the
// new last-resolved snapshot. A truncated resolution is still committed; the
// informational workshop.ErrDepthExceeded is passed through alongside the
// graph so callers can surface it.
func (s *Store) Refresh(ctx context.Context, id string) (*workshop.Graph, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	profile, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	graph, resolveErr := s.resolver.Resolve(ctx, profile.RootModID, profile.MaxDepth)
	if resolveErr != nil && !errors.Is(resolveErr, workshop.ErrDepthExceeded) {
		return nil, fmt.Errorf("refresh %s: %w", id, resolveErr)
	}

	now := time.Now().UTC()
	profile.Snapshot = graph
	profile.LastResolvedAt = &now
	profile.UpdatedAt = now

	data, err := encodeProfile(profile)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(s.profilePath(id), data); err != nil {
		return nil, err
	}

	s.logger.Info("snapshot refreshed",
		zap.String("profile_id", id),
		zap.Int("dependencies", len(graph.DependencyIDs)),
		zap.Bool("truncated", graph.Truncated),
	)
	return graph, resolveErr
}

// CheckDrift resolves the profile's root without committing anything and
// compares the fresh id set against the stored snapshot. A profile that was
// never refreshed reports every fresh dependency as added.
func (s *Store) CheckDrift(ctx context.Context, id string) (*DriftReport, error) {
	profile, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fresh, resolveErr := s.resolver.Resolve(ctx, profile.RootModID, profile.MaxDepth)
	if resolveErr != nil && !errors.Is(resolveErr, workshop.ErrDepthExceeded) {
		return nil, fmt.Errorf("drift check %s: %w", id, resolveErr)
	}

	report := diffSnapshots(profile, fresh)
	if report.HasDrift() {
		s.logger.Info("drift detected",
			zap.String("profile_id", id),
			zap.Strings("added", report.AddedIDs),
			zap.Strings("removed", report.RemovedIDs),
			zap.Bool("scenario_missing", report.ScenarioMissing),
		)
	}
	return report, nil
}

// diffSnapshots computes the drift report between the profile's stored
// snapshot and a fresh graph. Added ids keep fresh discovery order, removed
// ids keep snapshot order.
func diffSnapshots(profile *Profile, fresh *workshop.Graph) *DriftReport {
	report := &DriftReport{
		ProfileID: profile.ID,
		CheckedAt: time.Now().UTC(),
	}

	var snapshotIDs []string
	if profile.Snapshot != nil {
		snapshotIDs = profile.Snapshot.DependencyIDs
	}

	stored := make(map[string]struct{}, len(snapshotIDs))
	for _, id := range snapshotIDs {
		stored[id] = struct{}{}
	}
	current := make(map[string]struct{}, len(fresh.DependencyIDs))
	for _, id := range fresh.DependencyIDs {
		current[id] = struct{}{}
	}

	for _, id := range fresh.DependencyIDs {
		if _, ok := stored[id]; !ok {
			report.AddedIDs = append(report.AddedIDs, id)
		}
	}
	for _, id := range snapshotIDs {
		if _, ok := current[id]; !ok {
			report.RemovedIDs = append(report.RemovedIDs, id)
		}
	}

	if profile.SelectedScenarioID != "" {
		report.ScenarioMissing = !fresh.HasScenario(profile.SelectedScenarioID)
	}
	return report
}
