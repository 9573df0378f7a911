package workshop

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Identifiers must be 16 uppercase hex chars; keep them readable.
var (
	idRoot = "AAAAAAAAAAAAAAA0"
	idA    = "AAAAAAAAAAAAAAA1"
	idB    = "AAAAAAAAAAAAAAA2"
	idC    = "AAAAAAAAAAAAAAA3"
	idD    = "AAAAAAAAAAAAAAA4"
)

// fakeFetcher serves items from a map and records fetch counts.
type fakeFetcher struct {
	mu      sync.Mutex
	items   map[string]*Item
	errs    map[string]error
	fetched map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		items:   make(map[string]*Item),
		errs:    make(map[string]error),
		fetched: make(map[string]int),
	}
}

func (f *fakeFetcher) add(id string, deps ...string) *fakeFetcher {
	f.items[id] = &Item{ID: id, Name: "item " + id, Dependencies: deps}
	return f
}

func (f *fakeFetcher) FetchItem(ctx context.Context, id string) (*Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched[id]++
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

func (f *fakeFetcher) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetched[id]
}

func newTestResolver(f Fetcher) *Resolver {
	return NewResolver(f, Config{FetchConcurrency: 4}, zap.NewNop())
}

func TestResolve_DiscoveryOrder(t *testing.T) {
	fetcher := newFakeFetcher().
		add(idRoot, idA, idB).
		add(idA, idC).
		add(idB).
		add(idC)

	graph, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 5)
	require.NoError(t, err)

	assert.Equal(t, idRoot, graph.RootID)
	assert.Equal(t, []string{idA, idB, idC}, graph.DependencyIDs)
	assert.Equal(t, 2, graph.Depth)
	assert.False(t, graph.Truncated)
}

func TestResolve_CycleTerminates(t *testing.T) {
	// A -> B -> A: the back edge must be dropped, both appear exactly once.
	fetcher := newFakeFetcher().
		add(idRoot, idA).
		add(idA, idB).
		add(idB, idA)

	graph, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{idA, idB}, graph.DependencyIDs)
	assert.Equal(t, 1, fetcher.count(idA))
	assert.Equal(t, 1, fetcher.count(idB))

	// The dropped cyclic edge is reported, not swallowed.
	require.Len(t, graph.Notes, 1)
	assert.Contains(t, graph.Notes[0], idB+" -> "+idA)
}

func TestResolve_DepthTruncation(t *testing.T) {
	fetcher := newFakeFetcher().
		add(idRoot, idA).
		add(idA, idB).
		add(idB)

	graph, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 1)
	require.ErrorIs(t, err, ErrDepthExceeded)
	require.NotNil(t, graph)

	// Direct dependency is included; its own dependency is not expanded.
	assert.Equal(t, []string{idA}, graph.DependencyIDs)
	assert.True(t, graph.Truncated)
	assert.Equal(t, 0, fetcher.count(idB))
}

func TestResolve_NoTruncationWithoutDeeperEdges(t *testing.T) {
	fetcher := newFakeFetcher().
		add(idRoot, idA, idB).
		add(idA).
		add(idB)

	graph, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 1)
	require.NoError(t, err)
	assert.False(t, graph.Truncated)
	assert.Equal(t, []string{idA, idB}, graph.DependencyIDs)
}

func TestResolve_RootNotFound(t *testing.T) {
	fetcher := newFakeFetcher()

	_, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_DependencyFetchFailureIsNonFatal(t *testing.T) {
	fetcher := newFakeFetcher().
		add(idRoot, idA, idB).
		add(idB)
	fetcher.errs[idA] = fmt.Errorf("%w: boom", ErrUnreachable)

	graph, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 3)
	require.NoError(t, err)

	// The failed id stays in the set, its subtree is just not expanded.
	assert.Equal(t, []string{idA, idB}, graph.DependencyIDs)
	require.NotEmpty(t, graph.Notes)
	assert.Contains(t, graph.Notes[0], idA)
}

func TestResolve_InputValidation(t *testing.T) {
	fetcher := newFakeFetcher().add(idRoot)
	resolver := newTestResolver(fetcher)

	_, err := resolver.Resolve(context.Background(), "not-an-id", 3)
	assert.ErrorIs(t, err, ErrBadIdentifier)

	_, err = resolver.Resolve(context.Background(), idRoot, 0)
	assert.ErrorIs(t, err, ErrDepthOutOfRange)

	_, err = resolver.Resolve(context.Background(), idRoot, MaxDepthCeiling+1)
	assert.ErrorIs(t, err, ErrDepthOutOfRange)
}

func TestResolve_Cancellation(t *testing.T) {
	fetcher := newFakeFetcher().
		add(idRoot, idA).
		add(idA, idB).
		add(idB)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestResolver(fetcher).Resolve(ctx, idRoot, 5)
	assert.Error(t, err)
}

func TestResolve_ScenariosComeFromRoot(t *testing.T) {
	fetcher := newFakeFetcher().add(idRoot, idA).add(idA)
	fetcher.items[idRoot].Scenarios = []Scenario{
		{ID: "{" + idRoot + "}Missions/Campaign.conf", Name: "Campaign"},
	}

	graph, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 2)
	require.NoError(t, err)

	require.Len(t, graph.Scenarios, 1)
	assert.True(t, graph.HasScenario("{"+idRoot+"}Missions/Campaign.conf"))
	assert.False(t, graph.HasScenario("{"+idRoot+"}Missions/Other.conf"))
}

func TestResolve_Deterministic(t *testing.T) {
	fetcher := newFakeFetcher().
		add(idRoot, idA, idB, idC).
		add(idA, idD).
		add(idB, idD).
		add(idC).
		add(idD)

	first, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 5)
	require.NoError(t, err)
	second, err := newTestResolver(fetcher).Resolve(context.Background(), idRoot, 5)
	require.NoError(t, err)

	assert.Equal(t, first.DependencyIDs, second.DependencyIDs)
	assert.Equal(t, []string{idA, idB, idC, idD}, first.DependencyIDs)
}
