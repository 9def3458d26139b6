package wm

import "github.com/Cloudef/monsterwm-xcb/internal/layout"

// focusClient is the single focus authority for the visible desktop of the
// active monitor. Passing prevFocus (or a zero or stale ID) restores the
// previous focus; passing anything else makes it current and demotes the
// old current to prevFocus. It repaints borders, restacks, publishes the
// active-window hint, sets input focus and re-tiles.
func (m *Manager) focusClient(id ClientID) {
	mon := m.activeMonitor()
	d := mon.activeDesktop()
	if len(d.clients) == 0 {
		d.current, d.prevFocus = ClientID{}, ClientID{}
		m.gw.ClearActiveWindow()
		return
	}

	if c := m.arena.get(id); c == nil || id == d.prevFocus {
		if m.arena.get(d.prevFocus) != nil {
			d.current = d.prevFocus
		} else {
			d.current = d.head()
		}
		d.prevFocus = d.before(d.current)
	} else if id != d.current {
		d.prevFocus = d.current
		d.current = id
	}

	m.refreshBorders()
	m.restack(mon)

	cur := m.arena.get(d.current)
	if cur == nil {
		d.current = d.head()
		cur = m.arena.get(d.current)
	}
	if cur != nil {
		m.gw.SetActiveWindow(cur.Window)
		m.gw.FocusWindow(cur.Window)
	}
	m.retile()
}

// refreshBorders repaints every visible client's border. Width drops to
// zero for a sole client, a fullscreen client, and tiled clients in
// Monocle; exactly one window carries the focus color.
func (m *Manager) refreshBorders() {
	for mi := range m.monitors {
		mon := &m.monitors[mi]
		d := mon.activeDesktop()
		for _, id := range d.clients {
			c := m.arena.get(id)
			if c == nil {
				continue
			}
			width := m.cfg.BorderWidth
			if len(d.clients) == 1 || c.Fullscreen || (d.Mode == layout.Monocle && !c.fft()) {
				width = 0
			}
			m.gw.SetBorderWidth(c.Window, width)
			if mi == m.curMon && id == d.current {
				m.gw.SetBorderColor(c.Window, m.focusPixel)
			} else {
				m.gw.SetBorderColor(c.Window, m.unfocusPixel)
			}
		}
	}
}

// stackOrder is the visible stacking order of the monitor, bottom to top:
// tiled, then fullscreen, then floating and transient clients, the current
// client topping its own band. Fullscreen wins when a client carries
// several flags.
func (m *Manager) stackOrder(mon *Monitor) []ClientID {
	d := mon.activeDesktop()
	var tiled, full, float []ClientID
	for _, id := range d.clients {
		c := m.arena.get(id)
		if c == nil {
			continue
		}
		switch {
		case c.Fullscreen:
			full = append(full, id)
		case c.Floating || c.Transient:
			float = append(float, id)
		default:
			tiled = append(tiled, id)
		}
	}
	promote := func(band []ClientID) []ClientID {
		for i, id := range band {
			if id == d.current {
				return append(append(band[:i:i], band[i+1:]...), id)
			}
		}
		return band
	}
	order := make([]ClientID, 0, len(d.clients))
	order = append(order, promote(tiled)...)
	order = append(order, promote(full)...)
	order = append(order, promote(float)...)
	return order
}

func (m *Manager) restack(mon *Monitor) {
	for _, id := range m.stackOrder(mon) {
		if c := m.arena.get(id); c != nil {
			m.gw.RaiseWindow(c.Window)
		}
	}
}
