package confgen

import (
	"testing"

	"armory/core/workshop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rootID = "AAAAAAAAAAAAAAA0"
	modM1  = "AAAAAAAAAAAAAAA1"
	modM2  = "AAAAAAAAAAAAAAA2"
)

func testGraph() *workshop.Graph {
	return &workshop.Graph{
		RootID: rootID,
		Scenarios: []workshop.Scenario{
			{ID: "s1", Name: "Scenario One"},
			{ID: "s2", Name: "Scenario Two"},
		},
		DependencyIDs: []string{modM1, modM2},
		Depth:         1,
	}
}

func mustBaseline(t *testing.T) *ServerConfig {
	t.Helper()
	baseline, err := Baseline()
	require.NoError(t, err)
	return baseline
}

func modIDs(cfg *ServerConfig) []string {
	ids := make([]string, len(cfg.Game.Mods))
	for i, m := range cfg.Game.Mods {
		ids[i] = m.ModID
	}
	return ids
}

func TestSynthesize_ModOrderAndScenario(t *testing.T) {
	cfg, _, err := Synthesize(mustBaseline(t), Inputs{
		Graph:      testGraph(),
		ScenarioID: "s1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{rootID, modM1, modM2}, modIDs(cfg))
	assert.Equal(t, "s1", cfg.Game.ScenarioID)
}

func TestSynthesize_MissingScenario(t *testing.T) {
	_, _, err := Synthesize(mustBaseline(t), Inputs{
		Graph:      testGraph(),
		ScenarioID: "s3",
	})
	assert.ErrorIs(t, err, ErrMissingScenario)
}

func TestSynthesize_Deterministic(t *testing.T) {
	in := Inputs{
		Graph:       testGraph(),
		ScenarioID:  "s2",
		DisplayName: "My Server",
		ExtraModIDs: []string{"AAAAAAAAAAAAAAA9"},
		Overrides: map[string]string{
			"game.maxPlayers":          "32",
			"operating.playerSaveTime": "60",
			"game.visible":             "false",
		},
	}

	_, first, err := Synthesize(mustBaseline(t), in)
	require.NoError(t, err)
	_, second, err := Synthesize(mustBaseline(t), in)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must produce byte-identical output")
}

func TestSynthesize_DisabledModsFilterOutputOnly(t *testing.T) {
	graph := testGraph()
	cfg, _, err := Synthesize(mustBaseline(t), Inputs{
		Graph:          graph,
		ScenarioID:     "s1",
		DisabledModIDs: []string{modM1},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{rootID, modM2}, modIDs(cfg))
	// The graph itself stays canonical.
	assert.Equal(t, []string{modM1, modM2}, graph.DependencyIDs)
}

func TestSynthesize_ExtrasDedupedAgainstGraph(t *testing.T) {
	cfg, _, err := Synthesize(mustBaseline(t), Inputs{
		Graph:       testGraph(),
		ScenarioID:  "s1",
		ExtraModIDs: []string{modM2, "AAAAAAAAAAAAAAA7"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{rootID, modM1, modM2, "AAAAAAAAAAAAAAA7"}, modIDs(cfg))
}

func TestSynthesize_OverridePrecedence(t *testing.T) {
	cfg, _, err := Synthesize(mustBaseline(t), Inputs{
		Graph:       testGraph(),
		ScenarioID:  "s1",
		DisplayName: "From Profile",
		Overrides: map[string]string{
			"game.name":       "From Override",
			"game.maxPlayers": "16",
			"bindPort":        "3001",
		},
	})
	require.NoError(t, err)

	// Overrides are the highest-precedence source.
	assert.Equal(t, "From Override", cfg.Game.Name)
	assert.Equal(t, 16, cfg.Game.MaxPlayers)
	assert.Equal(t, 3001, cfg.BindPort)
}

func TestSynthesize_InvalidOverride(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
	}{
		{
			name:      "unknown field",
			overrides: map[string]string{"game.nope": "1"},
		},
		{
			name:      "scenario not overridable",
			overrides: map[string]string{"game.scenarioId": "s2"},
		},
		{
			name:      "wrong kind",
			overrides: map[string]string{"game.maxPlayers": "lots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Synthesize(mustBaseline(t), Inputs{
				Graph:      testGraph(),
				ScenarioID: "s1",
				Overrides:  tt.overrides,
			})
			assert.ErrorIs(t, err, ErrInvalidOverride)
		})
	}
}

func TestSynthesize_BaselineUntouched(t *testing.T) {
	baseline := mustBaseline(t)
	before := baseline.Game.MaxPlayers

	_, _, err := Synthesize(baseline, Inputs{
		Graph:      testGraph(),
		ScenarioID: "s1",
		Overrides:  map[string]string{"game.maxPlayers": "8"},
	})
	require.NoError(t, err)
	assert.Equal(t, before, baseline.Game.MaxPlayers)
}

func TestOverridablePaths(t *testing.T) {
	paths := OverridablePaths()
	assert.True(t, IsOverridablePath("game.maxPlayers"))
	assert.False(t, IsOverridablePath("game.scenarioId"))
	assert.Contains(t, paths, "operating.aiLimit")
}
