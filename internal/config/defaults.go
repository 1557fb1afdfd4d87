package config

// Built-in defaults for patchlint configuration.

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			PatchesDir:     "patches",
			Quiet:          false,
			Verbose:        false,
			PrintChangelog: false,
		},
		History: HistoryConfig{
			Enabled:       false,
			DatabasePath:  "",
			RetentionDays: 90,
		},
		Hook: HookConfig{
			Command: "",
		},
		Watch: WatchConfig{
			DebounceMs: 200,
			Patterns:   []string{"*.patch", "*.diff", "*.eml"},
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
	}
}
