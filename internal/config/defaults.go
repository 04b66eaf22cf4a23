package config

const (
	defaultTranscoder = "ffmpeg"
	defaultStateDir   = "~/.local/state/tunepress"
	defaultLogDir     = "~/.local/state/tunepress/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcoder: defaultTranscoder,
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
