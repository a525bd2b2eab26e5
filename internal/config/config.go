// Package config provides reading and writing of scratch-space
// configuration. Supports both global (~/.scratch-space/config.yaml)
// and local (.scratch-space/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use the local scope for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoCerv/scratch-space/internal/language"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.scratch-space/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .scratch-space/config.yaml
	ScopeLocal
)

// AutoSave holds debounced auto-save options.
type AutoSave struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	DelayMS *int  `yaml:"delay_ms,omitempty"`
}

// History holds history retention options.
type History struct {
	MaxEntries    *int `yaml:"max_entries,omitempty"`
	RetentionDays *int `yaml:"retention_days,omitempty"`
}

// Backup holds session backup options.
type Backup struct {
	IntervalSeconds *int `yaml:"interval_seconds,omitempty"`
	MaxBackups      *int `yaml:"max_backups,omitempty"`
	RetentionDays   *int `yaml:"retention_days,omitempty"`
}

// Session holds session recovery options.
type Session struct {
	RecoveryEnabled *bool `yaml:"recovery_enabled,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultAutoSaveDelayMS      = 1000
	DefaultMaxHistoryEntries    = 100
	DefaultHistoryRetentionDays = 30
	DefaultBackupIntervalSec    = 30
	DefaultMaxBackups           = 50
	DefaultBackupRetentionDays  = 7
)

// Validation bounds for configuration values.
const (
	MinAutoSaveDelayMS = 50
	MaxAutoSaveDelayMS = 60_000
	MinRetentionDays   = 1
	MaxRetentionDays   = 3650
	MinMaxEntries      = 1
	MaxMaxEntries      = 100_000
	MinBackupInterval  = 1
	MaxBackupInterval  = 86_400
)

// Config contains configuration for scratch-space.
type Config struct {
	DefaultLanguage string   `yaml:"default_language,omitempty"`
	AutoSave        AutoSave `yaml:"autosave,omitempty"`
	History         History  `yaml:"history,omitempty"`
	Backup          Backup   `yaml:"backup,omitempty"`
	Session         Session  `yaml:"session,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable
// bounds. Returns nil if all values are valid or not set (defaults
// will be used).
func (c *Config) Validate() error {
	if c.DefaultLanguage != "" && !language.Valid(c.DefaultLanguage) {
		return fmt.Errorf("%w: unsupported default_language %q", ErrInvalidValue, c.DefaultLanguage)
	}
	if err := inBounds("autosave.delay_ms", c.AutoSave.DelayMS, MinAutoSaveDelayMS, MaxAutoSaveDelayMS); err != nil {
		return err
	}
	if err := inBounds("history.max_entries", c.History.MaxEntries, MinMaxEntries, MaxMaxEntries); err != nil {
		return err
	}
	if err := inBounds("history.retention_days", c.History.RetentionDays, MinRetentionDays, MaxRetentionDays); err != nil {
		return err
	}
	if err := inBounds("backup.interval_seconds", c.Backup.IntervalSeconds, MinBackupInterval, MaxBackupInterval); err != nil {
		return err
	}
	if err := inBounds("backup.max_backups", c.Backup.MaxBackups, MinMaxEntries, MaxMaxEntries); err != nil {
		return err
	}
	if err := inBounds("backup.retention_days", c.Backup.RetentionDays, MinRetentionDays, MaxRetentionDays); err != nil {
		return err
	}
	return nil
}

func inBounds(name string, v *int, min, max int) error {
	if v == nil {
		return nil
	}
	if *v < min || *v > max {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrInvalidValue, name, min, max, *v)
	}
	return nil
}

// Language returns the default language for new scratchpads.
func (c *Config) Language() string {
	if c.DefaultLanguage == "" {
		return language.DefaultLanguage
	}
	return c.DefaultLanguage
}

// AutoSaveEnabled returns whether updates are debounced (defaults to true).
func (c *Config) AutoSaveEnabled() bool {
	if c.AutoSave.Enabled == nil {
		return true
	}
	return *c.AutoSave.Enabled
}

// AutoSaveDelay returns the debounce window for content updates.
func (c *Config) AutoSaveDelay() time.Duration {
	if c.AutoSave.DelayMS == nil {
		return DefaultAutoSaveDelayMS * time.Millisecond
	}
	return time.Duration(*c.AutoSave.DelayMS) * time.Millisecond
}

// MaxHistoryEntries returns the per-document history cap (defaults to 100).
func (c *Config) MaxHistoryEntries() int {
	if c.History.MaxEntries == nil {
		return DefaultMaxHistoryEntries
	}
	return *c.History.MaxEntries
}

// HistoryRetentionDays returns the history age limit (defaults to 30).
func (c *Config) HistoryRetentionDays() int {
	if c.History.RetentionDays == nil {
		return DefaultHistoryRetentionDays
	}
	return *c.History.RetentionDays
}

// BackupInterval returns the auto-backup tick interval (defaults to 30s).
func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalSeconds == nil {
		return DefaultBackupIntervalSec * time.Second
	}
	return time.Duration(*c.Backup.IntervalSeconds) * time.Second
}

// MaxBackups returns the backup count cap (defaults to 50).
func (c *Config) MaxBackups() int {
	if c.Backup.MaxBackups == nil {
		return DefaultMaxBackups
	}
	return *c.Backup.MaxBackups
}

// BackupRetentionDays returns the backup age limit (defaults to 7).
func (c *Config) BackupRetentionDays() int {
	if c.Backup.RetentionDays == nil {
		return DefaultBackupRetentionDays
	}
	return *c.Backup.RetentionDays
}

// RecoveryEnabled returns whether the auto-backup timer runs (defaults to true).
func (c *Config) RecoveryEnabled() bool {
	if c.Session.RecoveryEnabled == nil {
		return true
	}
	return *c.Session.RecoveryEnabled
}

// LocalPath returns the path to the local (directory) config file.
func LocalPath() string {
	return filepath.Join(".scratch-space", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file:
// ~/.scratch-space/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scratch-space", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
