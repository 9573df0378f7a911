package runner

// Config holds configuration for the process supervisor.
type Config struct {
	// ServerExe is the dedicated-server executable path.
	ServerExe string `mapstructure:"server_exe" default:""`
	// WorkDir is the working directory the server is launched in.
	WorkDir string `mapstructure:"work_dir" default:""`
	// ProfileDirBase is where per-profile server state directories live.
	ProfileDirBase string `mapstructure:"profile_dir_base" default:"./data/run"`
	// StartGraceSeconds is how long a freshly spawned process stays in
	// Starting before it is considered Running. The server has no
	// liveness signal, so survival of the grace period is the signal.
	StartGraceSeconds int `mapstructure:"start_grace_seconds" default:"5"`
	// StopTimeoutSeconds bounds the graceful shutdown; after it the
	// process is killed.
	StopTimeoutSeconds int `mapstructure:"stop_timeout_seconds" default:"10"`
}
