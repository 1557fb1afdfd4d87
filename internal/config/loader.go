package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// ProjectDir is used to locate .patchlint/config.toml. Defaults to CWD
	// when empty.
	ProjectDir string
	// ConfigPath overrides the project config path if provided.
	ConfigPath string
	// FlagOverrides are highest-priority overrides from CLI flags
	// (dot-notated keys).
	FlagOverrides map[string]any
}

// Load returns the effective configuration after applying precedence:
// defaults < user (~/.patchlint/config.toml) < project (.patchlint/config.toml)
// < env (PATCHLINT_*) < flags.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v)

	projectDir := opts.ProjectDir
	if projectDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			projectDir = cwd
		}
	}

	// 1) User config
	if err := mergeConfigFile(v, userConfigPath()); err != nil {
		return Config{}, err
	}
	// 2) Project config
	if err := mergeConfigFile(v, projectConfigPath(projectDir, opts.ConfigPath)); err != nil {
		return Config{}, err
	}
	// 3) Environment variables
	if err := applyEnvOverrides(v); err != nil {
		return Config{}, err
	}
	// 4) CLI flags (highest)
	for k, val := range opts.FlagOverrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults seeds viper with built-in defaults.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("general.patches_dir", def.General.PatchesDir)
	v.SetDefault("general.quiet", def.General.Quiet)
	v.SetDefault("general.verbose", def.General.Verbose)
	v.SetDefault("general.print_changelog", def.General.PrintChangelog)

	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.database_path", def.History.DatabasePath)
	v.SetDefault("history.retention_days", def.History.RetentionDays)

	v.SetDefault("hook.command", def.Hook.Command)

	v.SetDefault("watch.debounce_ms", def.Watch.DebounceMs)
	v.SetDefault("watch.patterns", def.Watch.Patterns)

	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.color", def.Output.Color)
}

// mergeConfigFile merges the TOML config file if it exists.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides reads PATCHLINT_* env vars and applies them.
func applyEnvOverrides(v *viper.Viper) error {
	for _, binding := range envBindings {
		val := os.Getenv(binding.Env)
		if val == "" {
			continue
		}
		parsed, err := parseValueByKind(val, binding.Kind)
		if err != nil {
			return fmt.Errorf("env %s: %w", binding.Env, err)
		}
		v.Set(binding.Key, parsed)
	}
	return nil
}

// ConfigPaths returns the user and project config file paths.
func ConfigPaths(projectDir, configOverride string) (string, string) {
	return userConfigPath(), projectConfigPath(projectDir, configOverride)
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".patchlint", "config.toml")
}

func projectConfigPath(projectDir, override string) string {
	if override != "" {
		return override
	}
	if projectDir == "" {
		return ".patchlint/config.toml"
	}
	return filepath.Join(projectDir, ".patchlint", "config.toml")
}

// WriteValue sets a single key/value into the specified TOML config file
// (creating it if needed).
func WriteValue(path, key string, value any) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	var existing map[string]any
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &existing); err != nil {
			return fmt.Errorf("decode config: %w", err)
		}
	}
	if existing == nil {
		existing = map[string]any{}
	}

	if err := setNested(existing, key, value); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	enc.Indent = "  "
	if err := enc.Encode(existing); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func setNested(m map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return fmt.Errorf("invalid key %q", key)
	}
	cur := m
	for i, p := range parts {
		if i == len(parts)-1 {
			cur[p] = value
			return nil
		}
		next, ok := cur[p]
		if !ok {
			child := map[string]any{}
			cur[p] = child
			cur = child
			continue
		}
		childMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot set %s: %s is not a table", key, strings.Join(parts[:i+1], "."))
		}
		cur = childMap
	}
	return nil
}

// Helpers for env + parsing ---------------------------------------------------

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
	kindStringSlice
)

var envBindings = []struct {
	Env  string
	Key  string
	Kind valueKind
}{
	{"PATCHLINT_PATCHES_DIR", "general.patches_dir", kindString},
	{"PATCHLINT_QUIET", "general.quiet", kindBool},
	{"PATCHLINT_VERBOSE", "general.verbose", kindBool},
	{"PATCHLINT_PRINT_CHANGELOG", "general.print_changelog", kindBool},

	{"PATCHLINT_HISTORY_ENABLED", "history.enabled", kindBool},
	{"PATCHLINT_HISTORY_DB_PATH", "history.database_path", kindString},
	{"PATCHLINT_HISTORY_RETENTION_DAYS", "history.retention_days", kindInt},

	{"PATCHLINT_HOOK_COMMAND", "hook.command", kindString},

	{"PATCHLINT_WATCH_DEBOUNCE_MS", "watch.debounce_ms", kindInt},
	{"PATCHLINT_WATCH_PATTERNS", "watch.patterns", kindStringSlice},

	{"PATCHLINT_OUTPUT_FORMAT", "output.format", kindString},
	{"PATCHLINT_OUTPUT_COLOR", "output.color", kindString},
}

func parseValueByKind(raw string, kind valueKind) (any, error) {
	switch kind {
	case kindString:
		return raw, nil
	case kindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected boolean: %w", err)
		}
		return v, nil
	case kindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected integer: %w", err)
		}
		return v, nil
	case kindStringSlice:
		parts := strings.Split(raw, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported value kind")
	}
}
