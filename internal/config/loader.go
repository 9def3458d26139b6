package config

import (
	"fmt"
	"os"
	"path/filepath"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "monsterwm", "config.yaml"), nil
}

// EnsureDefault writes the default configuration to path when nothing exists
// there yet, so a fresh install starts from an editable file. It reports
// whether a file was created.
func EnsureDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return false, fmt.Errorf("encoding default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing default config: %w", err)
	}
	return true, nil
}

// Load reads the configuration file at path layered over the defaults,
// validates it and resolves combos, modes and commands. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// compile resolves the declarative binding fields into their matched forms.
// It runs after Validate, so parse failures only surface on direct misuse.
func (c *Config) compile() error {
	for i := range c.Keys {
		k := &c.Keys[i]
		mod, key, err := ParseCombo(k.Combo)
		if err != nil {
			return &ValidationError{Path: fmt.Sprintf("keys[%d].combo", i), Err: err}
		}
		k.Mod, k.Key = mod, key
		spec := actions[k.Action]
		if spec.Mode {
			if k.ModeID, err = layout.ParseMode(k.Mode); err != nil {
				return &ValidationError{Path: fmt.Sprintf("keys[%d].mode", i), Err: err}
			}
		}
		if spec.Command {
			if k.Argv, err = splitCommand(k.Command); err != nil {
				return &ValidationError{Path: fmt.Sprintf("keys[%d].command", i), Err: err}
			}
		}
	}
	for i := range c.Buttons {
		b := &c.Buttons[i]
		mod, err := ParseModifiers(b.Combo)
		if err != nil {
			return &ValidationError{Path: fmt.Sprintf("buttons[%d].combo", i), Err: err}
		}
		b.Mod = mod
		spec := actions[b.Action]
		if spec.Mode {
			if b.ModeID, err = layout.ParseMode(b.Mode); err != nil {
				return &ValidationError{Path: fmt.Sprintf("buttons[%d].mode", i), Err: err}
			}
		}
		if spec.Command {
			if b.Argv, err = splitCommand(b.Command); err != nil {
				return &ValidationError{Path: fmt.Sprintf("buttons[%d].command", i), Err: err}
			}
		}
	}
	return nil
}
