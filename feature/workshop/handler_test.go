package workshop_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	core "armory/core/workshop"
	"armory/feature/workshop"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const rootID = "59674C62AE4A29C2"

type stubResolver struct {
	graph *core.Graph
	err   error
	depth int
}

func (s *stubResolver) Resolve(ctx context.Context, id string, maxDepth int) (*core.Graph, error) {
	s.depth = maxDepth
	return s.graph, s.err
}

func newApp(resolver *stubResolver) *fiber.App {
	app := fiber.New()
	f := workshop.NewFeature(resolver, core.Config{MaxDepth: 5}, zap.NewNop())
	_ = f.Load(app)
	return app
}

func postResolve(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/workshop/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(payload, &parsed))
	return resp.StatusCode, parsed
}

func TestHandleResolve(t *testing.T) {
	resolver := &stubResolver{graph: &core.Graph{
		RootID:        rootID,
		RootName:      "Test Mod",
		Scenarios:     []core.Scenario{{ID: "{" + rootID + "}Missions/Campaign.conf"}},
		DependencyIDs: []string{"AAAAAAAAAAAAAAA1"},
		Depth:         1,
	}}
	app := newApp(resolver)

	status, body := postResolve(t, app, `{"input": "`+rootID+`"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, rootID, body["root_id"])
	assert.Equal(t, float64(5), float64(resolver.depth), "default depth from config")

	scenarios := body["scenarios"].([]any)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Campaign", scenarios[0].(map[string]any)["name"])
}

func TestHandleResolve_TruncatedGraphIsOK(t *testing.T) {
	resolver := &stubResolver{
		graph: &core.Graph{RootID: rootID, DependencyIDs: []string{"AAAAAAAAAAAAAAA1"}, Depth: 1, Truncated: true},
		err:   core.ErrDepthExceeded,
	}
	app := newApp(resolver)

	status, body := postResolve(t, app, `{"input": "`+rootID+`", "max_depth": 1}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["truncated"])
}

func TestHandleResolve_BadInput(t *testing.T) {
	app := newApp(&stubResolver{})

	status, _ := postResolve(t, app, `{"input": "not-an-id"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleResolve_UpstreamDown(t *testing.T) {
	app := newApp(&stubResolver{err: core.ErrUnreachable})

	status, _ := postResolve(t, app, `{"input": "`+rootID+`"}`)
	assert.Equal(t, fiber.StatusBadGateway, status)
}

func TestHandleResolve_NotFound(t *testing.T) {
	app := newApp(&stubResolver{err: core.ErrNotFound})

	status, _ := postResolve(t, app, `{"input": "`+rootID+`"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}
