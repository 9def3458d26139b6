package wm

import "github.com/Cloudef/monsterwm-xcb/internal/layout"

// retile recomputes the active monitor's visible desktop.
func (m *Manager) retile() {
	m.retileMonitor(m.curMon)
}

// retileMonitor lays out the monitor's visible desktop. Only clients
// eligible for tiling get geometry; floating, transient and fullscreen
// windows keep theirs. Zero-border frames are issued whole, bordered ones
// shrink by twice the border so the footprint still matches the frame.
func (m *Manager) retileMonitor(mi int) {
	mon := &m.monitors[mi]
	d := mon.activeDesktop()
	ids := m.eligible(d)
	if len(ids) == 0 {
		return
	}

	area := m.workArea(mi)
	mode := d.Mode
	frames, err := layout.Frames(area, mode, len(ids), layout.Options{
		MasterRatio: m.cfg.MasterRatio,
		MasterDelta: d.MasterSize,
		Growth:      d.Growth,
	})
	if err != nil {
		m.log.Warn("tile failed", "monitor", mi, "error", err)
		return
	}

	// A lone client and every tiled client in Monocle render borderless,
	// matching the border pass.
	zeroBorder := len(d.clients) == 1 || mode == layout.Monocle
	for i, id := range ids {
		c := m.arena.get(id)
		f := frames[i]
		w, h := f.Width, f.Height
		if !zeroBorder {
			w -= 2 * m.cfg.BorderWidth
			h -= 2 * m.cfg.BorderWidth
		}
		m.gw.MoveResizeWindow(c.Window, f.X, f.Y, w, h)
	}
}
