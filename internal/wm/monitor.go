package wm

import "github.com/Cloudef/monsterwm-xcb/internal/layout"

// Monitor is one output: its geometry and its own desktop set. Desktops are
// not shared between monitors.
type Monitor struct {
	Geom layout.Rect

	desktops []Desktop
	active   int
	previous int
}

func (m *Monitor) activeDesktop() *Desktop {
	return &m.desktops[m.active]
}

// contains reports whether the point lies inside the monitor geometry.
func (m *Monitor) contains(x, y int) bool {
	return x >= m.Geom.X && x < m.Geom.X+m.Geom.Width &&
		y >= m.Geom.Y && y < m.Geom.Y+m.Geom.Height
}
