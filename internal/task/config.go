package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/todo/internal/kv"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir    string `json:"data_dir"`
	Backend    string `json:"backend"`
	StoreKey   string `json:"store_key"`
	Locale     string `json:"locale"`
	ExportFile string `json:"export_file"`

	// Resolved (computed, not serialized)
	EffectiveCwd string `json:"-"`
	DataDirAbs   string `json:"-"`

	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string
	Project string
	Env     []string // names of environment variables that overrode a value
}

// DefaultExportFile is the default name of the export artifact.
const DefaultExportFile = "todo-tasks-backup.json"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:    ".todo",
		Backend:    kv.BackendFile,
		StoreKey:   DefaultStoreKey,
		Locale:     string(LocaleEN),
		ExportFile: DefaultExportFile,
	}
}

// ConfigFileName is the project config file name.
const ConfigFileName = ".todo.json"

// Environment variables that override config file values.
const (
	EnvDataDir = "TODO_DATA_DIR"
	EnvBackend = "TODO_BACKEND"
	EnvLocale  = "TODO_LOCALE"
)

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DataDirOverride string            // --data-dir flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/todo/config.json or ~/.config/todo/config.json)
// 3. Project config file .todo.json in the work dir, or the explicit --config file
// 4. TODO_* environment variables
// 5. CLI overrides.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	if globalPath := globalConfigPath(input.Env); globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = mergeConfig(cfg, globalCfg)
			cfg.Sources.Global = globalPath
		}
	}

	projectPath, mustExist := filepath.Join(workDir, ConfigFileName), false
	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
	}

	projectCfg, loaded, err := loadConfigFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = mergeConfig(cfg, projectCfg)
		cfg.Sources.Project = projectPath
	}

	for _, override := range []struct {
		name   string
		target *string
	}{
		{EnvDataDir, &cfg.DataDir},
		{EnvBackend, &cfg.Backend},
		{EnvLocale, &cfg.Locale},
	} {
		if v := input.Env[override.name]; v != "" {
			*override.target = v
			cfg.Sources.Env = append(cfg.Sources.Env, override.name)
		}
	}

	if input.DataDirOverride != "" {
		cfg.DataDir = input.DataDirOverride
	}

	err = validateConfig(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	cfg.DataDirAbs = cfg.DataDir
	if !filepath.IsAbs(cfg.DataDirAbs) {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// globalConfigPath returns $XDG_CONFIG_HOME/todo/config.json, falling back
// to ~/.config/todo/config.json. Empty when neither variable is set.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "todo", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "todo", "config.json")
	}

	return ""
}

// loadConfigFile reads a JSONC config file. Missing optional files are not
// an error and report loaded=false.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !mustExist && os.IsNotExist(err) {
			return Config{}, false, nil
		}

		if os.IsNotExist(err) {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit "data_dir": "" is a mistake, not "use the default".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if v, ok := raw["data_dir"].(string); ok && v == "" {
		return Config{}, ErrDataDirEmpty
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.StoreKey != "" {
		base.StoreKey = overlay.StoreKey
	}

	if overlay.Locale != "" {
		base.Locale = overlay.Locale
	}

	if overlay.ExportFile != "" {
		base.ExportFile = overlay.ExportFile
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if cfg.StoreKey == "" {
		return ErrStoreKeyEmpty
	}

	switch cfg.Backend {
	case kv.BackendFile, kv.BackendSQLite:
	default:
		return fmt.Errorf("%w: %q (want file|sqlite)", ErrUnknownBackend, cfg.Backend)
	}

	_, err := ParseLocale(cfg.Locale)
	if err != nil {
		return err
	}

	return nil
}

// FormatConfig returns the config as indented JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}
