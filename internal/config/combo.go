package config

import (
	"fmt"
	"strconv"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// X11 modifier masks. Bindings are matched against event state with
// NumLock and CapsLock stripped, so Lock never appears in a combo.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod3       uint16 = 1 << 5
	Mod4       uint16 = 1 << 6
	Mod5       uint16 = 1 << 7
)

var modNames = map[string]uint16{
	"shift":   ModShift,
	"control": ModControl,
	"ctrl":    ModControl,
	"mod1":    Mod1,
	"alt":     Mod1,
	"mod2":    Mod2,
	"mod3":    Mod3,
	"mod4":    Mod4,
	"super":   Mod4,
	"mod5":    Mod5,
}

// ParseCombo splits a dash-separated combo like "Mod4-Shift-Return" into a
// modifier mask and the trailing key name. The key name is kept verbatim;
// it is resolved against the keyboard mapping at startup.
func ParseCombo(s string) (uint16, string, error) {
	parts := strings.Split(s, "-")
	key := parts[len(parts)-1]
	if key == "" {
		return 0, "", fmt.Errorf("combo %q has no key", s)
	}
	var mod uint16
	for _, part := range parts[:len(parts)-1] {
		m, ok := modNames[strings.ToLower(part)]
		if !ok {
			return 0, "", fmt.Errorf("combo %q has unknown modifier %q", s, part)
		}
		mod |= m
	}
	return mod, key, nil
}

// ParseModifiers parses a dash-separated modifier list such as "Mod1-Shift".
// An empty string means no modifiers.
func ParseModifiers(s string) (uint16, error) {
	if s == "" {
		return 0, nil
	}
	var mod uint16
	for _, part := range strings.Split(s, "-") {
		m, ok := modNames[strings.ToLower(part)]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mod |= m
	}
	return mod, nil
}

// ParseColor converts a "#rrggbb" string to a TrueColor pixel value.
func ParseColor(s string) (uint32, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must have the form #rrggbb", s)
	}
	return uint32(v), nil
}

func splitCommand(s string) ([]string, error) {
	argv, err := shellwords.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	return argv, nil
}
