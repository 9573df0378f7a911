package profiles

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t)
	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)
	return app, f
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func TestProfileEndpoints(t *testing.T) {
	app, f := newTestApp(t)

	// Create
	status, body := doJSON(t, app, "POST", "/profiles/",
		`{"display_name": "Test", "workshop_url": "https://workshop.example.com/workshop/`+testRootID+`-mod"}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	id := created["id"].(string)

	// List
	status, body = doJSON(t, app, "GET", "/profiles/", "")
	assert.Equal(t, fiber.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	// Refresh
	status, body = doJSON(t, app, "POST", "/profiles/"+id+"/refresh", "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	var refresh map[string]any
	require.NoError(t, json.Unmarshal(body, &refresh))
	assert.Equal(t, false, refresh["depth_exceeded"])

	// Select the scenario, then preview the config.
	status, _ = doJSON(t, app, "PATCH", "/profiles/"+id,
		`{"selected_scenario_id": "`+testScenarioID+`"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, "GET", "/profiles/"+id+"/config", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), testScenarioID)

	// Drift on an unchanged upstream is empty.
	status, body = doJSON(t, app, "GET", "/profiles/"+id+"/drift", "")
	require.Equal(t, fiber.StatusOK, status)
	var drift map[string]any
	require.NoError(t, json.Unmarshal(body, &drift))
	assert.Equal(t, false, drift["scenario_missing"])

	// Delete
	status, _ = doJSON(t, app, "DELETE", "/profiles/"+id, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = doJSON(t, app, "GET", "/profiles/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	_ = f
}

func TestProfileEndpoints_Errors(t *testing.T) {
	app, _ := newTestApp(t)

	// Bad workshop URL.
	status, _ := doJSON(t, app, "POST", "/profiles/", `{"display_name": "X", "workshop_url": "nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Unknown profile.
	status, _ = doJSON(t, app, "GET", "/profiles/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	// Preview before refresh conflicts.
	status, body := doJSON(t, app, "POST", "/profiles/",
		`{"display_name": "Test", "workshop_url": "`+testRootID+`"}`)
	require.Equal(t, fiber.StatusCreated, status)
	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = doJSON(t, app, "GET", "/profiles/"+created["id"].(string)+"/config", "")
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestPackageEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/packages/",
		`{"name": "QoL", "mod_ids": ["BBBBBBBBBBBBBBB1"]}`)
	require.Equal(t, fiber.StatusOK, status, string(body))

	var pkg map[string]any
	require.NoError(t, json.Unmarshal(body, &pkg))

	// Pasted id lists are accepted in place of mod_ids.
	status, body = doJSON(t, app, "POST", "/packages/",
		`{"name": "Maps", "mod_ids_text": "BBBBBBBBBBBBBBB2,BBBBBBBBBBBBBBB3\nBBBBBBBBBBBBBBB4"}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var pasted map[string]any
	require.NoError(t, json.Unmarshal(body, &pasted))
	assert.Len(t, pasted["mod_ids"], 3)

	status, body = doJSON(t, app, "GET", "/packages/", "")
	assert.Equal(t, fiber.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 2)

	status, _ = doJSON(t, app, "DELETE", "/packages/"+pkg["id"].(string), "")
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestOverridablePathsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "GET", "/config/overridable-paths", "")
	require.Equal(t, fiber.StatusOK, status)

	var paths []string
	require.NoError(t, json.Unmarshal(body, &paths))
	assert.Contains(t, paths, "bindPort")
	assert.NotContains(t, paths, "game.scenarioId")
}
