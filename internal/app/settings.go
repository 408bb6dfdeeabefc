package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Settings are the user choices persisted between runs.
type Settings struct {
	Mode   string `yaml:"mode"`
	APIKey string `yaml:"apiKey,omitempty"`
}

// DefaultSettings returns the settings used when none are saved.
func DefaultSettings() Settings { return Settings{Mode: ModeNLP} }

// DefaultSettingsPath returns $XDG_CONFIG_HOME/tldr/settings.yaml, falling
// back to the OS user config directory.
func DefaultSettingsPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	return filepath.Join(base, "tldr", "settings.yaml"), nil
}

// LoadSettings reads settings from path. A missing file yields defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	if s.Mode == "" {
		s.Mode = ModeNLP
	}
	return s, nil
}

// SaveSettings writes s to path with owner-only permissions. The key is trimmed.
func SaveSettings(path string, s Settings) error {
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	switch s.Mode {
	case ModeNLP, ModeBART, ModeLLM:
	case "":
		s.Mode = ModeNLP
	default:
		return fmt.Errorf("settings: unknown mode %q", s.Mode)
	}
	s.APIKey = strings.TrimSpace(s.APIKey)
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(path, 0o600)
}

// ResetSettings restores defaults at path.
func ResetSettings(path string) error {
	return SaveSettings(path, DefaultSettings())
}

// ApplySettings seeds cfg from saved settings. It runs before file config,
// env and flags so any of those override it.
func ApplySettings(cfg *Config, s Settings) {
	if cfg == nil {
		return
	}
	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	if s.APIKey != "" {
		cfg.HFAPIKey = s.APIKey
	}
}
