package wm

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Cloudef/monsterwm-xcb/internal/config"
	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

// fakeGateway records every display command as a formatted call string and
// answers queries from maps the test seeds.
type fakeGateway struct {
	calls  []string
	events []Event

	geoms          map[Window]layout.Rect
	classes        map[Window][2]string
	transient      map[Window]bool
	urgent         map[Window]bool
	override       map[Window]bool
	fullscreenHint map[Window]bool
	noDelete       map[Window]bool

	pointerX  int
	pointerY  int
	pointerOK bool
	grabFails bool
	flushErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		geoms:          map[Window]layout.Rect{},
		classes:        map[Window][2]string{},
		transient:      map[Window]bool{},
		urgent:         map[Window]bool{},
		override:       map[Window]bool{},
		fullscreenHint: map[Window]bool{},
		noDelete:       map[Window]bool{},
		pointerOK:      true,
	}
}

func (g *fakeGateway) record(format string, args ...any) {
	g.calls = append(g.calls, fmt.Sprintf(format, args...))
}

func (g *fakeGateway) reset() { g.calls = nil }

// filtered returns the recorded calls starting with prefix, in order.
func (g *fakeGateway) filtered(prefix string) []string {
	var out []string
	for _, c := range g.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) has(call string) bool {
	for _, c := range g.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (g *fakeGateway) WaitEvent() (Event, error) {
	if len(g.events) == 0 {
		return nil, fmt.Errorf("event queue empty")
	}
	ev := g.events[0]
	g.events = g.events[1:]
	return ev, nil
}

func (g *fakeGateway) Flush() error {
	g.record("flush")
	return g.flushErr
}

func (g *fakeGateway) MapWindow(w Window)   { g.record("map %d", w) }
func (g *fakeGateway) UnmapWindow(w Window) { g.record("unmap %d", w) }

func (g *fakeGateway) MoveWindow(w Window, x, y int) {
	g.record("move %d %d,%d", w, x, y)
}

func (g *fakeGateway) ResizeWindow(w Window, width, height int) {
	g.record("resize %d %dx%d", w, width, height)
}

func (g *fakeGateway) MoveResizeWindow(w Window, x, y, width, height int) {
	g.record("moveresize %d %d,%d %dx%d", w, x, y, width, height)
}

func (g *fakeGateway) RaiseWindow(w Window) { g.record("raise %d", w) }

func (g *fakeGateway) ConfigureWindow(w Window, req ConfigureRequestEvent) {
	g.record("configure %d mask=%d %d,%d %dx%d", w, req.Mask, req.X, req.Y, req.Width, req.Height)
}

func (g *fakeGateway) SetBorderWidth(w Window, width int) {
	g.record("borderwidth %d %d", w, width)
}

func (g *fakeGateway) SetBorderColor(w Window, rgb uint32) {
	g.record("bordercolor %d 0x%06x", w, rgb)
}

func (g *fakeGateway) SetFullscreenState(w Window, fullscreen bool) {
	g.record("fullscreenstate %d %t", w, fullscreen)
}

func (g *fakeGateway) SetActiveWindow(w Window) { g.record("activewindow %d", w) }
func (g *fakeGateway) ClearActiveWindow()       { g.record("clearactive") }
func (g *fakeGateway) FocusWindow(w Window)     { g.record("focus %d", w) }
func (g *fakeGateway) SendDelete(w Window)      { g.record("delete %d", w) }
func (g *fakeGateway) KillWindow(w Window)      { g.record("kill %d", w) }

func (g *fakeGateway) WindowGeometry(w Window) (layout.Rect, bool) {
	r, ok := g.geoms[w]
	return r, ok
}

func (g *fakeGateway) WindowClass(w Window) (string, string, bool) {
	c, ok := g.classes[w]
	return c[0], c[1], ok
}

func (g *fakeGateway) WindowTransient(w Window) bool        { return g.transient[w] }
func (g *fakeGateway) WindowUrgent(w Window) bool           { return g.urgent[w] }
func (g *fakeGateway) WindowOverrideRedirect(w Window) bool { return g.override[w] }
func (g *fakeGateway) WindowFullscreenHint(w Window) bool   { return g.fullscreenHint[w] }
func (g *fakeGateway) WindowSupportsDelete(w Window) bool   { return !g.noDelete[w] }

func (g *fakeGateway) PointerPosition() (int, int, bool) {
	return g.pointerX, g.pointerY, g.pointerOK
}

func (g *fakeGateway) GrabPointer() bool {
	g.record("grabpointer")
	return !g.grabFails
}

func (g *fakeGateway) UngrabPointer()              { g.record("ungrabpointer") }
func (g *fakeGateway) GrabClientButtons(w Window)  { g.record("grabbuttons %d", w) }
func (g *fakeGateway) SelectClientEvents(w Window) { g.record("selectevents %d", w) }
func (g *fakeGateway) ReplayPointer()              { g.record("replay") }
func (g *fakeGateway) WarpPointer(dx, dy int)      { g.record("warp %d,%d", dx, dy) }

// newTestManager builds a manager over a fake gateway with panel disabled
// so the work area equals the monitor geometry. Tests that care about the
// panel turn it back on through mutate.
func newTestManager(t *testing.T, mutate func(*config.Config), monitors ...layout.Rect) (*Manager, *fakeGateway, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ShowPanel = false
	if mutate != nil {
		mutate(cfg)
	}
	if len(monitors) == 0 {
		monitors = []layout.Rect{{X: 0, Y: 0, Width: 1000, Height: 800}}
	}
	gw := newFakeGateway()
	var status bytes.Buffer
	m, err := New(Options{
		Gateway:  gw,
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Monitors: monitors,
		Status:   &status,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, gw, &status
}

// mapWin drives a map request for w through the dispatcher, seeding a
// default geometry and class first.
func mapWin(t *testing.T, m *Manager, gw *fakeGateway, w Window) ClientID {
	t.Helper()
	if _, ok := gw.geoms[w]; !ok {
		gw.geoms[w] = layout.Rect{X: 10, Y: 10, Width: 300, Height: 200}
	}
	if _, ok := gw.classes[w]; !ok {
		gw.classes[w] = [2]string{"term", "XTerm"}
	}
	m.Dispatch(MapRequestEvent{Window: w})
	loc, ok := m.findWindow(w)
	if !ok {
		t.Fatalf("window %d not tracked after map request", w)
	}
	return loc.id
}

func currentWindow(t *testing.T, m *Manager) Window {
	t.Helper()
	d := m.activeMonitor().activeDesktop()
	c := m.arena.get(d.current)
	if c == nil {
		t.Fatalf("no current client")
	}
	return c.Window
}
