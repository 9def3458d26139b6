package wm

import (
	"fmt"

	"github.com/Cloudef/monsterwm-xcb/internal/config"
	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

// Arg carries the argument of a bound action. Desktop is -1 when the
// binding names none.
type Arg struct {
	Desktop int
	Delta   int
	Mode    layout.Mode
	Argv    []string
}

// KeyBinding is a compiled key binding: the modifier mask plus every
// keycode the configured keysym resolves to.
type KeyBinding struct {
	Mod    uint16
	Codes  []uint8
	Action string
	Arg    Arg
}

// ButtonBinding is a compiled pointer binding.
type ButtonBinding struct {
	Mod    uint16
	Button uint8
	Action string
	Arg    Arg
}

func bindArg(desktop *int, delta int, mode layout.Mode, argv []string) Arg {
	a := Arg{Desktop: -1, Delta: delta, Mode: mode, Argv: argv}
	if desktop != nil {
		a.Desktop = *desktop
	}
	return a
}

// KeysFromConfig compiles the configured key bindings, resolving each key
// name to its keycodes through resolve. A name that resolves to no keycode
// on the running display is an error rather than a silently dead binding.
func KeysFromConfig(binds []config.KeyBind, resolve func(key string) ([]uint8, error)) ([]KeyBinding, error) {
	keys := make([]KeyBinding, 0, len(binds))
	for i, b := range binds {
		codes, err := resolve(b.Key)
		if err != nil {
			return nil, fmt.Errorf("keys[%d] %q: %w", i, b.Combo, err)
		}
		if len(codes) == 0 {
			return nil, fmt.Errorf("keys[%d] %q: key %q has no keycode on this display", i, b.Combo, b.Key)
		}
		keys = append(keys, KeyBinding{
			Mod:    b.Mod,
			Codes:  codes,
			Action: b.Action,
			Arg:    bindArg(b.Desktop, b.Delta, b.ModeID, b.Argv),
		})
	}
	return keys, nil
}

// ButtonsFromConfig compiles the configured pointer bindings.
func ButtonsFromConfig(binds []config.ButtonBind) []ButtonBinding {
	buttons := make([]ButtonBinding, 0, len(binds))
	for _, b := range binds {
		buttons = append(buttons, ButtonBinding{
			Mod:    b.Mod,
			Button: uint8(b.Button),
			Action: b.Action,
			Arg:    bindArg(b.Desktop, b.Delta, b.ModeID, b.Argv),
		})
	}
	return buttons
}
