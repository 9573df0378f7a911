package workshop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Fetcher retrieves workshop item metadata. It is the resolver's sole
// outbound capability; swap it out for testing.
type Fetcher interface {
	// FetchItem returns the metadata for a single workshop item.
	// Returns ErrNotFound (wrapped) when the item does not exist upstream
	// and ErrUnreachable (wrapped) on network or upstream failures.
	FetchItem(ctx context.Context, id string) (*Item, error)
}

// HTTPFetcher fetches item metadata by scraping the public workshop pages.
// The pages embed a JSON state blob; when it is missing or incomplete the
// fetcher falls back to pattern matching on the raw HTML.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFetcher creates an HTTP-backed fetcher from the configuration.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

var (
	statePattern = regexp.MustCompile(`(?s)<script[^>]+id="__WORKSHOP_STATE__"[^>]*>(.*?)</script>`)
	titlePattern = regexp.MustCompile(`<title>([^<]+)</title>`)
)

// scenarioHint marks pages that list scenarios at all; pages without it are
// skipped entirely to avoid false positives from unrelated conf paths.
const scenarioHint = "Scenario ID"

// embeddedState mirrors the JSON blob embedded in workshop item pages.
// Older pages use "workshopId", newer ones "id".
type embeddedState struct {
	ID           string   `json:"id"`
	WorkshopID   string   `json:"workshopId"`
	Name         string   `json:"name"`
	Dependencies []string `json:"dependencies"`
}

// FetchItem implements Fetcher.
func (f *HTTPFetcher) FetchItem(ctx context.Context, id string) (*Item, error) {
	if !IsValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, id)
	}

	pageURL := f.baseURL + "/workshop/" + id
	body, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	item := parseItemPage(id, body)

	// Scenario paths live on a subpage; only fetch it when the item page
	// links to one, so plain dependency mods cost a single request.
	if len(item.Scenarios) == 0 && strings.Contains(body, "/workshop/"+id+"/scenarios") {
		if scenarioBody, err := f.get(ctx, pageURL+"/scenarios"); err == nil {
			item.Scenarios = parseScenarios(scenarioBody)
		}
	}

	return item, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d from %s", ErrUnreachable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return string(body), nil
}

// parseItemPage extracts item metadata from a workshop item page body.
func parseItemPage(id, body string) *Item {
	item := &Item{ID: id}

	if match := statePattern.FindStringSubmatch(body); match != nil {
		var state embeddedState
		if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &state); err == nil {
			if state.Name != "" {
				item.Name = state.Name
			}
			item.Dependencies = normalizeDependencyIDs(id, state.Dependencies)
		}
	}

	if item.Name == "" {
		if match := titlePattern.FindStringSubmatch(body); match != nil {
			item.Name = strings.TrimSpace(match[1])
		}
	}

	// Fallback: collect workshop links from the raw HTML. This catches
	// pages without the embedded state blob.
	if len(item.Dependencies) == 0 {
		var deps []string
		for _, match := range urlIDPattern.FindAllStringSubmatch(body, -1) {
			if depID := match[1]; depID != id && !contains(deps, depID) {
				deps = append(deps, depID)
			}
		}
		item.Dependencies = deps
	}

	item.Scenarios = parseScenarios(body)
	return item
}

// normalizeDependencyIDs accepts dependency entries that are either raw
// identifiers or workshop URLs and returns identifiers only, the root id
// and duplicates removed.
func normalizeDependencyIDs(selfID string, entries []string) []string {
	var ids []string
	for _, entry := range entries {
		id := entry
		if !IsValidID(id) {
			id = ExtractIDFromURL(entry)
		}
		if id == "" || id == selfID || contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// parseScenarios extracts scenario conf paths from a page body, first
// occurrence wins.
func parseScenarios(body string) []Scenario {
	if !strings.Contains(body, scenarioHint) {
		return nil
	}
	var scenarios []Scenario
	seen := make(map[string]struct{})
	for _, path := range scenarioPattern.FindAllString(body, -1) {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		scenarios = append(scenarios, Scenario{ID: path, Name: ScenarioDisplayName(path)})
	}
	return scenarios
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
