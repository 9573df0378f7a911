package workshop

// Config holds configuration for workshop resolution.
type Config struct {
	// BaseURL is the workshop site root used to build item page URLs.
	BaseURL string `mapstructure:"base_url" default:"https://reforger.armaplatform.com"`
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxDepth is the default dependency traversal depth when the caller
	// does not specify one.
	MaxDepth int `mapstructure:"max_depth" default:"5"`
	// FetchConcurrency caps the number of parallel metadata fetches per
	// traversal level.
	FetchConcurrency int `mapstructure:"fetch_concurrency" default:"8"`
}

// MaxDepthCeiling is the hard upper bound on resolution depth. Requests
// above it are rejected with ErrDepthOutOfRange so traversal always
// terminates, cycles or not.
const MaxDepthCeiling = 10
