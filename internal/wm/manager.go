package wm

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Cloudef/monsterwm-xcb/internal/config"
	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

// Phase is the dispatch state: Idle handles the full event vocabulary,
// Dragging admits only the events a pointer drag cares about.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

// lockMask is the CapsLock modifier bit; stripped, together with the
// discovered NumLock mask, from every binding comparison.
const lockMask uint16 = 1 << 1

const buttonLeft uint8 = 1

type dragState struct {
	client ClientID
	resize bool
	startX int
	startY int
	geom   layout.Rect
}

type clientLoc struct {
	mon  int
	desk int
	id   ClientID
}

// Options wires a Manager. Gateway, Config and at least one monitor are
// required; Logger defaults to slog.Default() and Status to stdout.
type Options struct {
	Gateway     Gateway
	Config      *config.Config
	Logger      *slog.Logger
	Monitors    []layout.Rect
	Keys        []KeyBinding
	Buttons     []ButtonBinding
	NumLockMask uint16
	Status      io.Writer
	Redraw      func()
}

// Manager is the whole window manager state. All mutation happens on the
// dispatch goroutine; nothing here is safe for concurrent use.
type Manager struct {
	gw     Gateway
	cfg    *config.Config
	log    *slog.Logger
	status io.Writer
	redraw func()

	arena    arena
	monitors []Monitor
	curMon   int

	phase Phase
	drag  dragState

	keys    []KeyBinding
	buttons []ButtonBinding
	numLock uint16

	focusPixel   uint32
	unfocusPixel uint32

	idle     map[EventKind]func(Event)
	dragging map[EventKind]func(Event)
	actions  map[string]func(Arg)

	running  bool
	exitCode int
}

// New builds a Manager from validated configuration and enumerated
// monitors.
func New(o Options) (*Manager, error) {
	if o.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if o.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if len(o.Monitors) == 0 {
		return nil, fmt.Errorf("at least one monitor is required")
	}
	mode, err := layout.ParseMode(o.Config.DefaultMode)
	if err != nil {
		return nil, fmt.Errorf("default mode: %w", err)
	}
	focus, err := config.ParseColor(o.Config.FocusColor)
	if err != nil {
		return nil, fmt.Errorf("focus color: %w", err)
	}
	unfocus, err := config.ParseColor(o.Config.UnfocusColor)
	if err != nil {
		return nil, fmt.Errorf("unfocus color: %w", err)
	}

	m := &Manager{
		gw:           o.Gateway,
		cfg:          o.Config,
		log:          o.Logger,
		status:       o.Status,
		redraw:       o.Redraw,
		keys:         o.Keys,
		buttons:      o.Buttons,
		numLock:      o.NumLockMask,
		focusPixel:   focus,
		unfocusPixel: unfocus,
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.status == nil {
		m.status = os.Stdout
	}

	m.monitors = make([]Monitor, len(o.Monitors))
	for i, geom := range o.Monitors {
		desktops := make([]Desktop, o.Config.Desktops)
		for d := range desktops {
			desktops[d] = Desktop{Mode: mode, ShowPanel: o.Config.ShowPanel}
		}
		m.monitors[i] = Monitor{
			Geom:     geom,
			desktops: desktops,
			active:   o.Config.DefaultDesktop,
			previous: o.Config.DefaultDesktop,
		}
	}

	m.idle = map[EventKind]func(Event){
		KindMapRequest:       m.handleMapRequest,
		KindDestroyNotify:    m.handleDestroyNotify,
		KindUnmapNotify:      m.handleUnmapNotify,
		KindConfigureRequest: m.handleConfigureRequest,
		KindClientMessage:    m.handleClientMessage,
		KindPropertyNotify:   m.handlePropertyNotify,
		KindEnterNotify:      m.handleEnterNotify,
		KindButtonPress:      m.handleButtonPress,
		KindKeyPress:         m.handleKeyPress,
		KindMotion:           m.handleRootMotion,
	}
	m.dragging = map[EventKind]func(Event){
		KindMotion:           m.handleDragMotion,
		KindConfigureRequest: m.handleConfigureRequest,
		KindMapRequest:       m.handleMapRequest,
		KindButtonPress:      m.handleDragEnd,
		KindButtonRelease:    m.handleDragEnd,
		KindKeyPress:         m.handleDragEnd,
		KindKeyRelease:       m.handleDragEnd,
	}
	m.actions = m.buildActions()
	return m, nil
}

// Run drives the dispatch loop until quit or a transport failure. The
// returned code is the quit action's argument; transport failures return an
// error alongside code 1.
func (m *Manager) Run() (int, error) {
	m.emitStatus()
	m.running = true
	for m.running {
		if err := m.gw.Flush(); err != nil {
			return 1, fmt.Errorf("flush display: %w", err)
		}
		ev, err := m.gw.WaitEvent()
		if err != nil {
			return 1, fmt.Errorf("wait for event: %w", err)
		}
		m.Dispatch(ev)
	}
	return m.exitCode, nil
}

// Dispatch routes one event through the table of the current phase. Kinds
// outside the table are dropped.
func (m *Manager) Dispatch(e Event) {
	table := m.idle
	if m.phase == PhaseDragging {
		table = m.dragging
	}
	h, ok := table[e.Kind()]
	if !ok {
		m.log.Debug("event dropped", "kind", e.Kind().String(), "phase", int(m.phase))
		return
	}
	h(e)
}

func (m *Manager) invoke(action string, a Arg) {
	fn, ok := m.actions[action]
	if !ok {
		m.log.Warn("unknown action", "action", action)
		return
	}
	m.log.Debug("action", "name", action)
	fn(a)
}

// cleanMask strips NumLock and CapsLock so bindings fire regardless of
// lock state.
func (m *Manager) cleanMask(state uint16) uint16 {
	return state &^ (m.numLock | lockMask)
}

func (m *Manager) activeMonitor() *Monitor {
	return &m.monitors[m.curMon]
}

// monitorAt returns the monitor containing the point, or the active one
// when the point lies outside every monitor.
func (m *Manager) monitorAt(x, y int) int {
	for i := range m.monitors {
		if m.monitors[i].contains(x, y) {
			return i
		}
	}
	return m.curMon
}

// workArea is the monitor geometry minus the panel strip when the visible
// desktop shows the panel.
func (m *Manager) workArea(mi int) layout.Rect {
	mon := &m.monitors[mi]
	r := mon.Geom
	if mon.activeDesktop().ShowPanel && m.cfg.PanelHeight > 0 {
		if m.cfg.TopPanel {
			r.Y += m.cfg.PanelHeight
		}
		r.Height -= m.cfg.PanelHeight
	}
	return r
}

// findWindow locates a managed window across every monitor and desktop.
func (m *Manager) findWindow(w Window) (clientLoc, bool) {
	for mi := range m.monitors {
		for di := range m.monitors[mi].desktops {
			for _, id := range m.monitors[mi].desktops[di].clients {
				if c := m.arena.get(id); c != nil && c.Window == w {
					return clientLoc{mon: mi, desk: di, id: id}, true
				}
			}
		}
	}
	return clientLoc{}, false
}

func (m *Manager) locate(id ClientID) (clientLoc, bool) {
	for mi := range m.monitors {
		for di := range m.monitors[mi].desktops {
			if m.monitors[mi].desktops[di].index(id) >= 0 {
				return clientLoc{mon: mi, desk: di, id: id}, true
			}
		}
	}
	return clientLoc{}, false
}

func (m *Manager) eligible(d *Desktop) []ClientID {
	var ids []ClientID
	for _, id := range d.clients {
		if c := m.arena.get(id); c != nil && !c.fft() {
			ids = append(ids, id)
		}
	}
	return ids
}

// repairFocus fixes a desktop's focus pair after id was detached: a removed
// prevFocus falls back to the predecessor of current, a removed current to
// prevFocus and then the head.
func (m *Manager) repairFocus(d *Desktop, id ClientID) {
	if id == d.prevFocus {
		d.prevFocus = d.before(d.current)
	}
	if id == d.current {
		if m.arena.get(d.prevFocus) != nil {
			d.current = d.prevFocus
		} else {
			d.current = d.head()
		}
		d.prevFocus = d.before(d.current)
	}
}

func modIndex(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}
