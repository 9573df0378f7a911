package workshop

import (
	"regexp"
	"strings"
)

var (
	idPattern       = regexp.MustCompile(`^[A-F0-9]{16}$`)
	urlIDPattern    = regexp.MustCompile(`/workshop/([A-F0-9]{16})`)
	scenarioPattern = regexp.MustCompile(`\{[A-F0-9]{16}\}Missions/[^\s"<>]+\.conf`)
)

// IsValidID reports whether value is a syntactically valid workshop
// identifier (16 uppercase hex characters).
func IsValidID(value string) bool {
	return idPattern.MatchString(value)
}

// ExtractIDFromURL extracts the workshop identifier from a workshop item URL.
// Returns an empty string if the URL does not contain one.
func ExtractIDFromURL(url string) string {
	match := urlIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// ParseModID accepts either a workshop URL or a raw identifier and returns
// the identifier, or ErrBadIdentifier if neither form matches.
func ParseModID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.Contains(trimmed, "/workshop/") {
		if id := ExtractIDFromURL(trimmed); id != "" {
			return id, nil
		}
		return "", ErrBadIdentifier
	}
	if IsValidID(trimmed) {
		return trimmed, nil
	}
	return "", ErrBadIdentifier
}

// ParseModIDList splits free-form user input (lines and/or commas) into a
// list of identifiers, skipping empty entries. Invalid entries are returned
// untouched so callers can surface them; use ParseModID per entry to
// validate strictly.
func ParseModIDList(input string) []string {
	var ids []string
	for _, line := range strings.Split(input, "\n") {
		for _, part := range strings.Split(line, ",") {
			if value := strings.TrimSpace(part); value != "" {
				ids = append(ids, value)
			}
		}
	}
	return ids
}

// ScenarioDisplayName derives a readable name from a scenario path like
// "{ABCD1234ABCD1234}Missions/Campaign.conf". Returns an empty string when
// the path has no Missions segment.
func ScenarioDisplayName(path string) string {
	const marker = "Missions/"
	idx := strings.Index(path, marker)
	if idx < 0 {
		return ""
	}
	name := strings.TrimSuffix(path[idx+len(marker):], ".conf")
	return name
}
