// Package config implements hierarchical configuration for patchlint.
// Precedence: defaults < user (~/.patchlint/config.toml) < project
// (.patchlint/config.toml) < env (PATCHLINT_*) < flags.
package config

// Config is the top-level configuration structure.
type Config struct {
	General GeneralConfig `toml:"general" mapstructure:"general"`
	History HistoryConfig `toml:"history" mapstructure:"history"`
	Hook    HookConfig    `toml:"hook" mapstructure:"hook"`
	Watch   WatchConfig   `toml:"watch" mapstructure:"watch"`
	Output  OutputConfig  `toml:"output" mapstructure:"output"`
}

// GeneralConfig holds core behavior knobs.
type GeneralConfig struct {
	// PatchesDir is scanned when check runs without file arguments.
	PatchesDir string `toml:"patches_dir" mapstructure:"patches_dir"`
	Quiet      bool   `toml:"quiet" mapstructure:"quiet"`
	Verbose    bool   `toml:"verbose" mapstructure:"verbose"`
	// PrintChangelog prints the per-file change summary for passing patches.
	PrintChangelog bool `toml:"print_changelog" mapstructure:"print_changelog"`
}

// HistoryConfig holds run-history persistence settings.
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled" mapstructure:"enabled"`
	DatabasePath  string `toml:"database_path" mapstructure:"database_path"`
	RetentionDays int    `toml:"retention_days" mapstructure:"retention_days"`
}

// HookConfig configures the external commit-info hook.
type HookConfig struct {
	// Command is an external command line resolving a commit reference to
	// its raw message. Empty disables the hook.
	Command string `toml:"command" mapstructure:"command"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	DebounceMs int `toml:"debounce_ms" mapstructure:"debounce_ms"`
	// Patterns are filename globs a changed file must match to be re-checked.
	Patterns []string `toml:"patterns" mapstructure:"patterns"`
}

// OutputConfig holds report formatting settings.
type OutputConfig struct {
	Format string `toml:"format" mapstructure:"format"` // text | json
	Color  string `toml:"color" mapstructure:"color"`   // auto | always | never
}
