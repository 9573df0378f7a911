package workshop

import (
	"context"
	"errors"

	core "armory/core/workshop"

	"go.uber.org/zap"
)

// Resolver is the service's view of the dependency resolver.
type Resolver interface {
	Resolve(ctx context.Context, rootID string, maxDepth int) (*core.Graph, error)
}

// Service handles resolution requests.
type Service struct {
	resolver Resolver
	cfg      core.Config
	logger   *zap.Logger
}

// NewService creates a new workshop service.
func NewService(resolver Resolver, cfg core.Config, logger *zap.Logger) *Service {
	return &Service{resolver: resolver, cfg: cfg, logger: logger}
}

// ScenarioView is a scenario with its derived display name.
type ScenarioView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResolveResult is the API shape of one resolution run.
type ResolveResult struct {
	RootID        string         `json:"root_id"`
	RootName      string         `json:"root_name,omitempty"`
	Scenarios     []ScenarioView `json:"scenarios"`
	DependencyIDs []string       `json:"dependency_ids"`
	Depth         int            `json:"depth"`
	Truncated     bool           `json:"truncated"`
	Notes         []string       `json:"notes,omitempty"`
}

// Resolve parses the input (URL or raw id) and runs a resolution. A
// truncated graph is returned as a normal result with Truncated set.
func (s *Service) Resolve(ctx context.Context, input string, maxDepth int) (*ResolveResult, error) {
	rootID, err := core.ParseModID(input)
	if err != nil {
		return nil, err
	}
	if maxDepth <= 0 {
		maxDepth = s.cfg.MaxDepth
	}

	graph, err := s.resolver.Resolve(ctx, rootID, maxDepth)
	if err != nil && !errors.Is(err, core.ErrDepthExceeded) {
		return nil, err
	}

	return graphView(graph), nil
}

func graphView(graph *core.Graph) *ResolveResult {
	scenarios := make([]ScenarioView, 0, len(graph.Scenarios))
	for _, sc := range graph.Scenarios {
		name := sc.Name
		if name == "" {
			name = core.ScenarioDisplayName(sc.ID)
		}
		scenarios = append(scenarios, ScenarioView{ID: sc.ID, Name: name})
	}

	deps := graph.DependencyIDs
	if deps == nil {
		deps = []string{}
	}

	return &ResolveResult{
		RootID:        graph.RootID,
		RootName:      graph.RootName,
		Scenarios:     scenarios,
		DependencyIDs: deps,
		Depth:         graph.Depth,
		Truncated:     graph.Truncated,
		Notes:         graph.Notes,
	}
}
