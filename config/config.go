package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/fstree/internal/util"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl       = util.InfoLevel
	DefaultStorage      = OSStorage
	DefaultStateBackend = YAMLState
	DefaultStateFile    = "state.yaml"
	DefaultLocale       = "und"

	// DefaultFilePerm is the mode new empty files are created with
	DefaultFilePerm fs.FileMode = 0o644
	// DefaultDirPerm is the mode new folders are created with
	DefaultDirPerm fs.FileMode = 0o755
)

// Config contains runtime configuration values for the file tree.
type Config struct {
	LogLvl       util.LogLevel // Internal log level (Default Info)
	RootPath     string        // Initial root when no persisted root exists (Default unset)
	Storage      string        // Storage backend key, "os" or "mem" (Default "os")
	StateBackend string        // Root path persistence, "yaml", "sqlite" or "none" (Default "yaml")
	StatePath    string        // Location of the state file or database (Default <user config dir>/fstree/state.yaml)
	Locale       string        // BCP 47 tag used to collate names within a listing (Default "und")
	FilePerm     fs.FileMode   // Mode for new files (Default 0644)
	DirPerm      fs.FileMode   // Mode for new folders (Default 0755)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// LogLvl is given as CLI verbosity between 1 (error) and 5 (trace).
type ConfigOverride struct {
	LogLvl       *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	RootPath     *string `yaml:"root_path,omitempty" json:"root_path,omitempty"`
	Storage      *string `yaml:"storage,omitempty" json:"storage,omitempty"`
	StateBackend *string `yaml:"state_backend,omitempty" json:"state_backend,omitempty"`
	StatePath    *string `yaml:"state_path,omitempty" json:"state_path,omitempty"`
	Locale       *string `yaml:"locale,omitempty" json:"locale,omitempty"`
	FilePerm     *uint32 `yaml:"file_perm,omitempty" json:"file_perm,omitempty"`
	DirPerm      *uint32 `yaml:"dir_perm,omitempty" json:"dir_perm,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:       DefaultLogLvl,
		Storage:      DefaultStorage,
		StateBackend: DefaultStateBackend,
		StatePath:    DefaultStatePath(),
		Locale:       DefaultLocale,
		FilePerm:     DefaultFilePerm,
		DirPerm:      DefaultDirPerm,
	}
}

// NewConfig returns the defaults with override applied; override may be nil.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// DefaultStatePath returns the state file under the user config dir, or in
// the working directory when no config dir can be determined.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultStateFile
	}
	return filepath.Join(dir, "fstree", DefaultStateFile)
}

// ResolveRootPath makes a relative root absolute against the working
// directory. Empty stays empty. If the working directory is unknown p is
// returned unchanged and the tree will refuse it.
func ResolveRootPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = util.LevelFromVerbose(*override.LogLvl)
	}
	if override.RootPath != nil {
		c.RootPath = ResolveRootPath(*override.RootPath)
	}
	if override.Storage != nil {
		c.Storage = *override.Storage
	}
	if override.StateBackend != nil {
		c.StateBackend = *override.StateBackend
	}
	if override.StatePath != nil {
		c.StatePath = *override.StatePath
	}
	if override.Locale != nil {
		c.Locale = *override.Locale
	}
	if override.FilePerm != nil {
		c.FilePerm = fs.FileMode(*override.FilePerm).Perm()
	}
	if override.DirPerm != nil {
		c.DirPerm = fs.FileMode(*override.DirPerm).Perm()
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
