package wm

import (
	"fmt"
	"io"
	"strings"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

// emitStatus writes one status line: seven colon-separated decimal fields
// per monitor/desktop pair, pairs separated by spaces, the line
// newline-terminated. Field order is monitor, active-monitor flag, desktop,
// client count, mode, active-desktop flag, urgent flag.
func (m *Manager) emitStatus() {
	var b strings.Builder
	for mi := range m.monitors {
		mon := &m.monitors[mi]
		for di := range mon.desktops {
			if mi > 0 || di > 0 {
				b.WriteByte(' ')
			}
			d := &mon.desktops[di]
			urgent := 0
			for _, id := range d.clients {
				if c := m.arena.get(id); c != nil && c.Urgent {
					urgent = 1
					break
				}
			}
			fmt.Fprintf(&b, "%d:%d:%d:%d:%d:%d:%d",
				mi, boolField(mi == m.curMon), di, len(d.clients),
				int(d.Mode), boolField(di == mon.active), urgent)
		}
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(m.status, b.String()); err != nil {
		m.log.Debug("status write failed", "error", err)
	}
	if m.redraw != nil {
		m.redraw()
	}
}

func boolField(v bool) int {
	if v {
		return 1
	}
	return 0
}

// DesktopInfo is one desktop's slice of a Snapshot.
type DesktopInfo struct {
	Mode    layout.Mode
	Clients int
	Active  bool
	Urgent  bool
}

// MonitorInfo is one monitor's slice of a Snapshot. Stacking is the
// visible desktop's window order, bottom to top.
type MonitorInfo struct {
	Geom     layout.Rect
	Active   bool
	Desktops []DesktopInfo
	Stacking []Window
}

// Snapshot is a point-in-time copy of the manager state for an embedded
// bar or renderer driven by the redraw hook.
type Snapshot struct {
	Monitors []MonitorInfo
}

// Snapshot copies the observable state. It must be called from the
// dispatch goroutine, typically inside the redraw hook.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{Monitors: make([]MonitorInfo, len(m.monitors))}
	for mi := range m.monitors {
		mon := &m.monitors[mi]
		info := MonitorInfo{
			Geom:     mon.Geom,
			Active:   mi == m.curMon,
			Desktops: make([]DesktopInfo, len(mon.desktops)),
		}
		for di := range mon.desktops {
			d := &mon.desktops[di]
			urgent := false
			for _, id := range d.clients {
				if c := m.arena.get(id); c != nil && c.Urgent {
					urgent = true
					break
				}
			}
			info.Desktops[di] = DesktopInfo{
				Mode:    d.Mode,
				Clients: len(d.clients),
				Active:  di == mon.active,
				Urgent:  urgent,
			}
		}
		for _, id := range m.stackOrder(mon) {
			if c := m.arena.get(id); c != nil {
				info.Stacking = append(info.Stacking, c.Window)
			}
		}
		s.Monitors[mi] = info
	}
	return s
}
