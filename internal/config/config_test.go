package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

func TestDefaultConfig_ValidatesAndCompiles(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if err := cfg.compile(); err != nil {
		t.Fatalf("default config does not compile: %v", err)
	}

	for i, k := range cfg.Keys {
		if k.Key == "" {
			t.Fatalf("keys[%d] has no resolved key", i)
		}
		if k.Action == "spawn" && len(k.Argv) == 0 {
			t.Fatalf("keys[%d] spawn has no argv", i)
		}
	}
	for i, b := range cfg.Buttons {
		if b.Mod == 0 {
			t.Fatalf("buttons[%d] has no modifier", i)
		}
	}
}

func TestParseCombo(t *testing.T) {
	tests := []struct {
		combo string
		mod   uint16
		key   string
	}{
		{"Mod4-Shift-Return", Mod4 | ModShift, "Return"},
		{"Mod1-j", Mod1, "j"},
		{"super-alt-x", Mod4 | Mod1, "x"},
		{"ctrl-space", ModControl, "space"},
		{"F4", 0, "F4"},
	}
	for _, tt := range tests {
		mod, key, err := ParseCombo(tt.combo)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.combo, err)
		}
		if mod != tt.mod || key != tt.key {
			t.Fatalf("%s: got (%#x, %q), want (%#x, %q)", tt.combo, mod, key, tt.mod, tt.key)
		}
	}

	for _, combo := range []string{"Mod9-x", "Mod4-", ""} {
		if _, _, err := ParseCombo(combo); err == nil {
			t.Fatalf("%q: expected error", combo)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	mod, err := ParseModifiers("Mod1-Shift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod != Mod1|ModShift {
		t.Fatalf("got %#x, want %#x", mod, Mod1|ModShift)
	}
	if mod, err = ParseModifiers(""); err != nil || mod != 0 {
		t.Fatalf("empty modifiers: got (%#x, %v), want (0, nil)", mod, err)
	}
	if _, err = ParseModifiers("hyper"); err == nil {
		t.Fatalf("expected error for unknown modifier")
	}
}

func TestParseColor(t *testing.T) {
	pixel, err := ParseColor("#ff950e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pixel != 0xff950e {
		t.Fatalf("got %#x, want 0xff950e", pixel)
	}
	for _, s := range []string{"ff950e", "#ff950", "#zzzzzz", "red", ""} {
		if _, err := ParseColor(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestValidate_NamesTheOffendingKey(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero desktops", func(c *Config) { c.Desktops = 0 }, "desktops"},
		{"default desktop out of range", func(c *Config) { c.DefaultDesktop = 9 }, "default_desktop"},
		{"bad mode", func(c *Config) { c.DefaultMode = "spiral" }, "default_mode"},
		{"ratio too large", func(c *Config) { c.MasterRatio = 1.2 }, "master_ratio"},
		{"tiny min size", func(c *Config) { c.MinWindowSize = 0 }, "min_window_size"},
		{"negative border", func(c *Config) { c.BorderWidth = -1 }, "border_width"},
		{"bad color", func(c *Config) { c.FocusColor = "orange" }, "focus_color"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"unknown action", func(c *Config) { c.Keys[0].Action = "explode" }, "keys[0].action"},
		{"bad combo", func(c *Config) { c.Keys[1].Combo = "Hyper-x" }, "keys[1].combo"},
		{"missing desktop arg", func(c *Config) {
			c.Keys = []KeyBind{{Combo: "Mod4-1", Action: "change_desktop"}}
		}, "keys[0].desktop"},
		{"zero delta", func(c *Config) {
			c.Keys = []KeyBind{{Combo: "Mod1-h", Action: "resize_master"}}
		}, "keys[0].delta"},
		{"blank command", func(c *Config) {
			c.Keys = []KeyBind{{Combo: "Mod1-d", Action: "spawn", Command: "  "}}
		}, "keys[0].command"},
		{"button out of range", func(c *Config) { c.Buttons[0].Button = 9 }, "buttons[0].button"},
		{"rule without class", func(c *Config) { c.Rules = []Rule{{Class: ""}} }, "rules[0].class"},
		{"rule desktop out of range", func(c *Config) {
			c.Rules = []Rule{{Class: "mpv", Desktop: intPtr(11)}}
		}, "rules[0].desktop"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: error is %T, want *ValidationError", tt.name, err)
		}
		if verr.Path != tt.path {
			t.Fatalf("%s: error at %q, want %q", tt.name, verr.Path, tt.path)
		}
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DefaultConfig()
	if cfg.Desktops != want.Desktops || cfg.MasterRatio != want.MasterRatio {
		t.Fatalf("got desktops=%d ratio=%v, want defaults", cfg.Desktops, cfg.MasterRatio)
	}
	if len(cfg.Keys) != len(want.Keys) {
		t.Fatalf("got %d keys, want %d", len(cfg.Keys), len(want.Keys))
	}
}

func TestLoad_FileOverridesScalarsAndKeepsDefaultBindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("master_ratio: 0.6\nborder_width: 0\nshow_panel: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MasterRatio != 0.6 || cfg.BorderWidth != 0 || cfg.ShowPanel {
		t.Fatalf("overrides not applied: ratio=%v border=%d panel=%v", cfg.MasterRatio, cfg.BorderWidth, cfg.ShowPanel)
	}
	if len(cfg.Keys) != len(DefaultConfig().Keys) {
		t.Fatalf("default bindings lost: %d keys", len(cfg.Keys))
	}
}

func TestLoad_KeyListReplacesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`keys:
  - combo: Mod4-Return
    action: spawn
    command: xterm -e 'tmux attach'
  - combo: Mod4-m
    action: switch_mode
    mode: monocle
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(cfg.Keys))
	}
	spawn := cfg.Keys[0]
	if spawn.Mod != Mod4 || spawn.Key != "Return" {
		t.Fatalf("combo resolved to (%#x, %q)", spawn.Mod, spawn.Key)
	}
	want := []string{"xterm", "-e", "tmux attach"}
	if len(spawn.Argv) != len(want) {
		t.Fatalf("argv = %v, want %v", spawn.Argv, want)
	}
	for i := range want {
		if spawn.Argv[i] != want[i] {
			t.Fatalf("argv = %v, want %v", spawn.Argv, want)
		}
	}
	if cfg.Keys[1].ModeID != layout.Monocle {
		t.Fatalf("mode resolved to %v, want monocle", cfg.Keys[1].ModeID)
	}
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	_, err := Load(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "log_level" {
		t.Fatalf("got %v, want validation error at log_level", err)
	}
}

func TestEnsureDefault_WritesTheFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monsterwm", "config.yaml")

	created, err := EnsureDefault(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create the file")
	}
	if created, err = EnsureDefault(path); err != nil || created {
		t.Fatalf("second call: got (created=%v, err=%v)", created, err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("written defaults do not load: %v", err)
	}
	if cfg.Desktops != DefaultConfig().Desktops {
		t.Fatalf("written defaults differ: desktops=%d", cfg.Desktops)
	}
}
