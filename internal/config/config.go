package config

import (
	"fmt"
	"strings"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

// Config is the whole runtime configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	Desktops       int     `koanf:"desktops" yaml:"desktops"`
	DefaultDesktop int     `koanf:"default_desktop" yaml:"default_desktop"`
	DefaultMode    string  `koanf:"default_mode" yaml:"default_mode"`
	MasterRatio    float64 `koanf:"master_ratio" yaml:"master_ratio"`
	MinWindowSize  int     `koanf:"min_window_size" yaml:"min_window_size"`
	BorderWidth    int     `koanf:"border_width" yaml:"border_width"`
	FocusColor     string  `koanf:"focus_color" yaml:"focus_color"`
	UnfocusColor   string  `koanf:"unfocus_color" yaml:"unfocus_color"`
	PanelHeight    int     `koanf:"panel_height" yaml:"panel_height"`
	TopPanel       bool    `koanf:"top_panel" yaml:"top_panel"`
	ShowPanel      bool    `koanf:"show_panel" yaml:"show_panel"`
	AttachAside    bool    `koanf:"attach_aside" yaml:"attach_aside"`
	FollowWindow   bool    `koanf:"follow_window" yaml:"follow_window"`
	FollowMouse    bool    `koanf:"follow_mouse" yaml:"follow_mouse"`
	ClickToFocus   bool    `koanf:"click_to_focus" yaml:"click_to_focus"`
	LogLevel       string  `koanf:"log_level" yaml:"log_level"`

	Keys    []KeyBind    `koanf:"keys" yaml:"keys"`
	Buttons []ButtonBind `koanf:"buttons" yaml:"buttons"`
	Rules   []Rule       `koanf:"rules" yaml:"rules,omitempty"`
}

// KeyBind maps a key combo to an action. Desktop, Delta, Mode and Command
// carry the action argument; which one is required depends on the action.
// Mod, Key, ModeID and Argv are resolved from the declarative fields during
// Load and are never read from the file.
type KeyBind struct {
	Combo   string `koanf:"combo" yaml:"combo"`
	Action  string `koanf:"action" yaml:"action"`
	Desktop *int   `koanf:"desktop" yaml:"desktop,omitempty"`
	Delta   int    `koanf:"delta" yaml:"delta,omitempty"`
	Mode    string `koanf:"mode" yaml:"mode,omitempty"`
	Command string `koanf:"command" yaml:"command,omitempty"`

	Mod    uint16      `koanf:"-" yaml:"-"`
	Key    string      `koanf:"-" yaml:"-"`
	ModeID layout.Mode `koanf:"-" yaml:"-"`
	Argv   []string    `koanf:"-" yaml:"-"`
}

// ButtonBind maps a modifier combo plus a pointer button to an action.
type ButtonBind struct {
	Combo   string `koanf:"combo" yaml:"combo,omitempty"`
	Button  int    `koanf:"button" yaml:"button"`
	Action  string `koanf:"action" yaml:"action"`
	Desktop *int   `koanf:"desktop" yaml:"desktop,omitempty"`
	Delta   int    `koanf:"delta" yaml:"delta,omitempty"`
	Mode    string `koanf:"mode" yaml:"mode,omitempty"`
	Command string `koanf:"command" yaml:"command,omitempty"`

	Mod    uint16      `koanf:"-" yaml:"-"`
	ModeID layout.Mode `koanf:"-" yaml:"-"`
	Argv   []string    `koanf:"-" yaml:"-"`
}

// Rule classifies new windows by class or instance substring. The first
// matching rule wins. A nil Desktop keeps the window on the current desktop.
type Rule struct {
	Class    string `koanf:"class" yaml:"class"`
	Desktop  *int   `koanf:"desktop" yaml:"desktop,omitempty"`
	Follow   bool   `koanf:"follow" yaml:"follow,omitempty"`
	Floating bool   `koanf:"floating" yaml:"floating,omitempty"`
}

// ValidationError names the configuration key an invalid value was found at.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// argSpec records which argument an action consumes.
type argSpec struct {
	Desktop bool
	Delta   bool
	Mode    bool
	Command bool
}

var actions = map[string]argSpec{
	"focus_next":        {},
	"focus_prev":        {},
	"focus_urgent":      {},
	"swap_master":       {},
	"move_up":           {},
	"move_down":         {},
	"kill_client":       {},
	"last_desktop":      {},
	"toggle_panel":      {},
	"mouse_move":        {},
	"mouse_resize":      {},
	"mouse_aside":       {},
	"quit":              {},
	"resize_master":     {Delta: true},
	"resize_stack":      {Delta: true},
	"rotate":            {Delta: true},
	"rotate_filled":     {Delta: true},
	"change_monitor":    {Delta: true},
	"client_to_monitor": {Delta: true},
	"change_desktop":    {Desktop: true},
	"client_to_desktop": {Desktop: true},
	"switch_mode":       {Mode: true},
	"spawn":             {Command: true},
}

// KnownAction reports whether name is a dispatchable action.
func KnownAction(name string) bool {
	_, ok := actions[name]
	return ok
}

// ActionNames returns every dispatchable action name, unordered.
func ActionNames() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	return names
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Desktops < 1 {
		return &ValidationError{Path: "desktops", Err: fmt.Errorf("desktops must be >= 1")}
	}
	if c.DefaultDesktop < 0 || c.DefaultDesktop >= c.Desktops {
		return &ValidationError{Path: "default_desktop", Err: fmt.Errorf("default_desktop must be in [0, %d)", c.Desktops)}
	}
	if _, err := layout.ParseMode(c.DefaultMode); err != nil {
		return &ValidationError{Path: "default_mode", Err: err}
	}
	if c.MasterRatio <= 0 || c.MasterRatio >= 1 {
		return &ValidationError{Path: "master_ratio", Err: fmt.Errorf("master_ratio must be between 0 and 1 exclusive")}
	}
	if c.MinWindowSize < 1 {
		return &ValidationError{Path: "min_window_size", Err: fmt.Errorf("min_window_size must be >= 1")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := ParseColor(c.FocusColor); err != nil {
		return &ValidationError{Path: "focus_color", Err: err}
	}
	if _, err := ParseColor(c.UnfocusColor); err != nil {
		return &ValidationError{Path: "unfocus_color", Err: err}
	}
	if c.PanelHeight < 0 {
		return &ValidationError{Path: "panel_height", Err: fmt.Errorf("panel_height must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	for i := range c.Keys {
		if err := c.validateKey(i); err != nil {
			return err
		}
	}
	for i := range c.Buttons {
		if err := c.validateButton(i); err != nil {
			return err
		}
	}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Class) == "" {
			return &ValidationError{Path: fmt.Sprintf("rules[%d].class", i), Err: fmt.Errorf("class must not be empty")}
		}
		if r.Desktop != nil && (*r.Desktop < 0 || *r.Desktop >= c.Desktops) {
			return &ValidationError{Path: fmt.Sprintf("rules[%d].desktop", i), Err: fmt.Errorf("desktop must be in [0, %d)", c.Desktops)}
		}
	}
	return nil
}

func (c *Config) validateKey(i int) error {
	k := &c.Keys[i]
	path := func(f string) string { return fmt.Sprintf("keys[%d].%s", i, f) }
	if _, _, err := ParseCombo(k.Combo); err != nil {
		return &ValidationError{Path: path("combo"), Err: err}
	}
	return c.validateAction(path, k.Action, k.Desktop, k.Delta, k.Mode, k.Command)
}

func (c *Config) validateButton(i int) error {
	b := &c.Buttons[i]
	path := func(f string) string { return fmt.Sprintf("buttons[%d].%s", i, f) }
	if _, err := ParseModifiers(b.Combo); err != nil {
		return &ValidationError{Path: path("combo"), Err: err}
	}
	if b.Button < 1 || b.Button > 5 {
		return &ValidationError{Path: path("button"), Err: fmt.Errorf("button must be in [1, 5]")}
	}
	return c.validateAction(path, b.Action, b.Desktop, b.Delta, b.Mode, b.Command)
}

func (c *Config) validateAction(path func(string) string, action string, desktop *int, delta int, mode, command string) error {
	spec, ok := actions[action]
	if !ok {
		return &ValidationError{Path: path("action"), Err: fmt.Errorf("unknown action %q", action)}
	}
	if spec.Desktop {
		if desktop == nil {
			return &ValidationError{Path: path("desktop"), Err: fmt.Errorf("action %q requires a desktop", action)}
		}
		if *desktop < 0 || *desktop >= c.Desktops {
			return &ValidationError{Path: path("desktop"), Err: fmt.Errorf("desktop must be in [0, %d)", c.Desktops)}
		}
	}
	if spec.Delta && delta == 0 {
		return &ValidationError{Path: path("delta"), Err: fmt.Errorf("action %q requires a non-zero delta", action)}
	}
	if spec.Mode {
		if _, err := layout.ParseMode(mode); err != nil {
			return &ValidationError{Path: path("mode"), Err: err}
		}
	}
	if spec.Command {
		if strings.TrimSpace(command) == "" {
			return &ValidationError{Path: path("command"), Err: fmt.Errorf("action %q requires a command", action)}
		}
		if _, err := splitCommand(command); err != nil {
			return &ValidationError{Path: path("command"), Err: err}
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

// DefaultConfig mirrors the stock compile-time configuration: four desktops
// in tile mode, a 52% master area, alt-based focus and layout bindings,
// super-based desktop switching, and alt-click window dragging.
func DefaultConfig() *Config {
	c := &Config{
		Desktops:       4,
		DefaultDesktop: 0,
		DefaultMode:    "tile",
		MasterRatio:    0.52,
		MinWindowSize:  50,
		BorderWidth:    2,
		FocusColor:     "#ff950e",
		UnfocusColor:   "#444444",
		PanelHeight:    18,
		TopPanel:       true,
		ShowPanel:      true,
		AttachAside:    true,
		FollowWindow:   false,
		FollowMouse:    false,
		ClickToFocus:   true,
		LogLevel:       "info",
		Keys: []KeyBind{
			{Combo: "Mod1-b", Action: "toggle_panel"},
			{Combo: "Mod1-BackSpace", Action: "focus_urgent"},
			{Combo: "Mod1-Shift-c", Action: "kill_client"},
			{Combo: "Mod1-j", Action: "focus_next"},
			{Combo: "Mod1-k", Action: "focus_prev"},
			{Combo: "Mod1-h", Action: "resize_master", Delta: -10},
			{Combo: "Mod1-l", Action: "resize_master", Delta: 10},
			{Combo: "Mod1-o", Action: "resize_stack", Delta: -10},
			{Combo: "Mod1-p", Action: "resize_stack", Delta: 10},
			{Combo: "Mod1-Control-h", Action: "rotate", Delta: -1},
			{Combo: "Mod1-Control-l", Action: "rotate", Delta: 1},
			{Combo: "Mod1-Shift-h", Action: "rotate_filled", Delta: -1},
			{Combo: "Mod1-Shift-l", Action: "rotate_filled", Delta: 1},
			{Combo: "Mod1-Tab", Action: "last_desktop"},
			{Combo: "Mod1-Return", Action: "swap_master"},
			{Combo: "Mod1-Shift-j", Action: "move_down"},
			{Combo: "Mod1-Shift-k", Action: "move_up"},
			{Combo: "Mod1-Shift-t", Action: "switch_mode", Mode: "tile"},
			{Combo: "Mod1-Shift-m", Action: "switch_mode", Mode: "monocle"},
			{Combo: "Mod1-Shift-b", Action: "switch_mode", Mode: "bstack"},
			{Combo: "Mod1-Shift-g", Action: "switch_mode", Mode: "grid"},
			{Combo: "Mod1-F12", Action: "mouse_aside"},
			{Combo: "Mod4-Right", Action: "change_monitor", Delta: 1},
			{Combo: "Mod4-Left", Action: "change_monitor", Delta: -1},
			{Combo: "Mod4-Shift-Right", Action: "client_to_monitor", Delta: 1},
			{Combo: "Mod4-Shift-Left", Action: "client_to_monitor", Delta: -1},
			{Combo: "Mod1-Shift-Return", Action: "spawn", Command: "xterm"},
			{Combo: "Mod1-d", Action: "spawn", Command: "dmenu_run"},
			{Combo: "Mod1-Control-q", Action: "quit"},
		},
		Buttons: []ButtonBind{
			{Combo: "Mod1", Button: 1, Action: "mouse_move"},
			{Combo: "Mod1", Button: 3, Action: "mouse_resize"},
		},
	}
	for i := 0; i < c.Desktops; i++ {
		n := fmt.Sprintf("%d", i+1)
		c.Keys = append(c.Keys,
			KeyBind{Combo: "Mod4-" + n, Action: "change_desktop", Desktop: intPtr(i)},
			KeyBind{Combo: "Mod4-Shift-" + n, Action: "client_to_desktop", Desktop: intPtr(i)},
		)
	}
	return c
}
