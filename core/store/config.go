package store

// Config holds configuration for the profile store.
type Config struct {
	// DataDir is the base directory for persisted state: profile records,
	// generated configuration artifacts and mod packages.
	DataDir string `mapstructure:"data_dir" default:"./data"`
}
