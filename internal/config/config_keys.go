// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and
// string-based get/set logic used by the CLI, keeping config.go focused
// on YAML structure and loading.
//
// Design: Pointers are used for optional fields so we can distinguish
// between "not set" (nil) and "explicitly set to zero/false". Defaults
// only apply when the user hasn't set a value.

package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned when getting/setting an unknown config key.
var ErrUnknownKey = errors.New("unknown config key")

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"default_language",
		"autosave.enabled", "autosave.delay_ms",
		"history.max_entries", "history.retention_days",
		"backup.interval_seconds", "backup.max_backups", "backup.retention_days",
		"session.recovery_enabled",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "default_language":
		return c.Language(), nil
	case "autosave.enabled":
		return strconv.FormatBool(c.AutoSaveEnabled()), nil
	case "autosave.delay_ms":
		return strconv.Itoa(int(c.AutoSaveDelay().Milliseconds())), nil
	case "history.max_entries":
		return strconv.Itoa(c.MaxHistoryEntries()), nil
	case "history.retention_days":
		return strconv.Itoa(c.HistoryRetentionDays()), nil
	case "backup.interval_seconds":
		return strconv.Itoa(int(c.BackupInterval().Seconds())), nil
	case "backup.max_backups":
		return strconv.Itoa(c.MaxBackups()), nil
	case "backup.retention_days":
		return strconv.Itoa(c.BackupRetentionDays()), nil
	case "session.recovery_enabled":
		return strconv.FormatBool(c.RecoveryEnabled()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key. The value is validated
// against the same bounds as Validate.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_language":
		c.DefaultLanguage = value
	case "autosave.enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.AutoSave.Enabled = &b
	case "autosave.delay_ms":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.AutoSave.DelayMS = &n
	case "history.max_entries":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.History.MaxEntries = &n
	case "history.retention_days":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.History.RetentionDays = &n
	case "backup.interval_seconds":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.Backup.IntervalSeconds = &n
	case "backup.max_backups":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.Backup.MaxBackups = &n
	case "backup.retention_days":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.Backup.RetentionDays = &n
	case "session.recovery_enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Session.RecoveryEnabled = &b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, key)
	}
	return n, nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		out[k] = v
	}
	return out
}
