package config

// Config represents the complete docstrings configuration.
// It can be loaded from .docstrings/config.yml with environment variable overrides.
type Config struct {
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// OutputConfig controls how extracted trees are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json" or "yaml"
	Indent int    `yaml:"indent" mapstructure:"indent"` // spaces per level, 0 for compact json
}

// PathsConfig defines which files batch and watch pick up.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for python sources
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// ExtractConfig tunes batch extraction.
type ExtractConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // concurrent files
}

// CacheConfig sizes the in-memory result cache used by watch and mcp.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// LogConfig sets the console log level.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "json",
			Indent: 2,
		},
		Paths: PathsConfig{
			Include: []string{"**/*.py"},
			Ignore: []string{
				".git/**",
				"**/__pycache__/**",
				"**/.venv/**",
				"**/venv/**",
				"**/.tox/**",
				"**/node_modules/**",
				"build/**",
				"dist/**",
			},
		},
		Extract: ExtractConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			MaxEntries: 1000,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
