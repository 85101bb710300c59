package config

// Default directories and file paths for sitefn.
const (
	// DefaultConfigPath is the JSON config read by the CLI when --config is not given.
	DefaultConfigPath = "sitefn.config.json"
	// DefaultServeAddr is the listen address for `sitefn serve`.
	DefaultServeAddr = ":3000"
)
