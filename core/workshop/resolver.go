package workshop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolver walks workshop dependency graphs breadth-first.
type Resolver struct {
	fetcher     Fetcher
	logger      *zap.Logger
	concurrency int
}

// NewResolver creates a resolver on top of the given fetcher.
func NewResolver(fetcher Fetcher, cfg Config, logger *zap.Logger) *Resolver {
	concurrency := cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Resolver{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Resolve fetches the root item and expands its dependencies level by level
// up to maxDepth. Fetches within one level run concurrently; the resulting
// order is breadth-first discovery order and does not depend on fetch
// completion order.
//
// Items reachable through multiple paths (including cycles) are fetched and
// expanded at most once; every skipped duplicate edge is recorded in
// Graph.Notes. Dependencies sitting exactly at the depth limit are recorded
// in the result but not expanded; when that truncates real edges, the graph
// is returned together with ErrDepthExceeded so callers can tell a complete
// graph from a cut-off one.
func (r *Resolver) Resolve(ctx context.Context, rootID string, maxDepth int) (*Graph, error) {
	if !IsValidID(rootID) {
		return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, rootID)
	}
	if maxDepth < 1 || maxDepth > MaxDepthCeiling {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrDepthOutOfRange, maxDepth, MaxDepthCeiling)
	}

	root, err := r.fetcher.FetchItem(ctx, rootID)
	if err != nil {
		// Root failures are fatal: without the root there is no graph.
		return nil, fmt.Errorf("fetch root %s: %w", rootID, err)
	}

	graph := &Graph{
		RootID:    rootID,
		RootName:  root.Name,
		Scenarios: root.Scenarios,
	}

	visited := map[string]struct{}{rootID: {}}
	frontier := dedupeEdges(graph, rootID, root.Dependencies, visited)

	depth := 0
	truncated := false

	for len(frontier) > 0 && depth < maxDepth {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		depth++

		items, err := r.fetchLevel(ctx, frontier, graph)
		if err != nil {
			return nil, err
		}

		var next []string
		for i, id := range frontier {
			graph.DependencyIDs = append(graph.DependencyIDs, id)
			item := items[i]
			if item == nil {
				continue // fetch failed, noted already
			}
			if depth == maxDepth {
				// Boundary items are recorded but not expanded. Flag the
				// cut so callers never mistake a truncated graph for a
				// complete one.
				if hasUnvisited(item.Dependencies, visited) {
					truncated = true
				}
				continue
			}
			next = append(next, dedupeEdges(graph, id, item.Dependencies, visited)...)
		}
		frontier = next
	}

	graph.Depth = depth
	graph.Truncated = truncated

	if truncated {
		r.logger.Debug("resolution truncated",
			zap.String("root_id", rootID),
			zap.Int("max_depth", maxDepth),
		)
		return graph, fmt.Errorf("%w at depth %d", ErrDepthExceeded, maxDepth)
	}

	return graph, nil
}

// hasUnvisited reports whether deps contains at least one id that has not
// been resolved yet.
func hasUnvisited(deps []string, visited map[string]struct{}) bool {
	for _, dep := range deps {
		if _, seen := visited[dep]; !seen {
			return true
		}
	}
	return false
}

// fetchLevel fetches all ids of one frontier level concurrently. The result
// slice is positionally aligned with ids; failed fetches yield a nil entry
// and a note on the graph.
func (r *Resolver) fetchLevel(ctx context.Context, ids []string, graph *Graph) ([]*Item, error) {
	items := make([]*Item, len(ids))

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			item, err := r.fetcher.FetchItem(groupCtx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// Per-dependency failures are non-fatal: the id stays in
				// the result set, its subtree is simply not expanded.
				mu.Lock()
				graph.Notes = append(graph.Notes, fmt.Sprintf("fetch %s failed: %v", id, err))
				mu.Unlock()
				r.logger.Warn("dependency fetch failed", zap.String("id", id), zap.Error(err))
				return nil
			}
			items[i] = item
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// dedupeEdges filters deps down to ids not seen before, marking them
// visited, and records every skipped edge (diamond or cycle) as a note.
func dedupeEdges(graph *Graph, from string, deps []string, visited map[string]struct{}) []string {
	var fresh []string
	for _, dep := range deps {
		if _, seen := visited[dep]; seen {
			graph.Notes = append(graph.Notes, fmt.Sprintf("edge %s -> %s skipped: already resolved", from, dep))
			continue
		}
		visited[dep] = struct{}{}
		fresh = append(fresh, dep)
	}
	return fresh
}
