package wm

import (
	"os/exec"
	"syscall"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

func (m *Manager) buildActions() map[string]func(Arg) {
	return map[string]func(Arg){
		"focus_next":        m.nextWin,
		"focus_prev":        m.prevWin,
		"focus_urgent":      m.focusUrgent,
		"swap_master":       m.swapMaster,
		"move_up":           m.moveUp,
		"move_down":         m.moveDown,
		"kill_client":       m.killClient,
		"last_desktop":      m.lastDesktop,
		"toggle_panel":      m.togglePanel,
		"mouse_move":        func(Arg) { m.beginDrag(false) },
		"mouse_resize":      func(Arg) { m.beginDrag(true) },
		"mouse_aside":       m.mouseAside,
		"quit":              m.quit,
		"resize_master":     m.resizeMaster,
		"resize_stack":      m.resizeStack,
		"rotate":            m.rotate,
		"rotate_filled":     m.rotateFilled,
		"change_monitor":    m.changeMonitor,
		"client_to_monitor": m.clientToMonitor,
		"change_desktop":    func(a Arg) { m.changeDesktop(a.Desktop) },
		"client_to_desktop": m.clientToDesktop,
		"switch_mode":       m.switchMode,
		"spawn":             m.spawn,
	}
}

func (m *Manager) nextWin(Arg) {
	d := m.activeMonitor().activeDesktop()
	if len(d.clients) < 2 || m.arena.get(d.current) == nil {
		return
	}
	d.prevFocus = d.current
	m.focusClient(d.after(d.current))
}

func (m *Manager) prevWin(Arg) {
	d := m.activeMonitor().activeDesktop()
	if len(d.clients) < 2 || m.arena.get(d.current) == nil {
		return
	}
	d.prevFocus = d.current
	m.focusClient(d.before(d.current))
}

// focusUrgent jumps to the first urgent client: the visible desktop is
// searched first, then every desktop of every monitor in order.
func (m *Manager) focusUrgent(Arg) {
	d := m.activeMonitor().activeDesktop()
	for _, id := range d.clients {
		if c := m.arena.get(id); c != nil && c.Urgent {
			m.focusClient(id)
			return
		}
	}
	for mi := range m.monitors {
		mon := &m.monitors[mi]
		for di := range mon.desktops {
			for _, id := range mon.desktops[di].clients {
				c := m.arena.get(id)
				if c == nil || !c.Urgent {
					continue
				}
				monChanged := mi != m.curMon
				m.curMon = mi
				if di != mon.active {
					m.changeDesktop(di)
					m.focusClient(id)
				} else {
					m.focusClient(id)
					if monChanged {
						m.emitStatus()
					}
				}
				return
			}
		}
	}
}

// swapMaster promotes the current client to the master slot. From the
// master it swaps with the second client instead, so hitting it twice
// toggles the top pair.
func (m *Manager) swapMaster(Arg) {
	d := m.activeMonitor().activeDesktop()
	if len(d.clients) < 2 || m.arena.get(d.current) == nil {
		return
	}
	if d.current == d.head() {
		m.moveDown(Arg{})
	} else {
		for d.current != d.head() {
			m.moveUp(Arg{})
		}
	}
	m.focusClient(d.head())
}

// moveDown swaps the current client with its successor; from the tail the
// whole sequence rotates so the client wraps to the master slot.
func (m *Manager) moveDown(Arg) {
	d := m.activeMonitor().activeDesktop()
	n := len(d.clients)
	if n < 2 {
		return
	}
	i := d.index(d.current)
	if i < 0 {
		return
	}
	if i == n-1 {
		d.clients = append([]ClientID{d.clients[n-1]}, d.clients[:n-1]...)
	} else {
		d.clients[i], d.clients[i+1] = d.clients[i+1], d.clients[i]
	}
	m.retile()
}

// moveUp is the mirror of moveDown: from the master slot the sequence
// rotates the other way and the client wraps to the tail.
func (m *Manager) moveUp(Arg) {
	d := m.activeMonitor().activeDesktop()
	n := len(d.clients)
	if n < 2 {
		return
	}
	i := d.index(d.current)
	if i < 0 {
		return
	}
	if i == 0 {
		d.clients = append(d.clients[1:], d.clients[0])
	} else {
		d.clients[i-1], d.clients[i] = d.clients[i], d.clients[i-1]
	}
	m.retile()
}

// killClient asks the current window to close, or force-kills it when it
// does not speak WM_DELETE_WINDOW. The record goes away immediately; the
// eventual destroy notify finds nothing to do.
func (m *Manager) killClient(Arg) {
	d := m.activeMonitor().activeDesktop()
	c := m.arena.get(d.current)
	if c == nil {
		return
	}
	if m.gw.WindowSupportsDelete(c.Window) {
		m.gw.SendDelete(c.Window)
	} else {
		m.gw.KillWindow(c.Window)
	}
	m.removeClient(d.current)
}

func (m *Manager) lastDesktop(Arg) {
	m.changeDesktop(m.activeMonitor().previous)
}

func (m *Manager) togglePanel(Arg) {
	d := m.activeMonitor().activeDesktop()
	d.ShowPanel = !d.ShowPanel
	m.retile()
}

// mouseAside throws the pointer to the right edge of the active monitor so
// it stops hovering the window under it.
func (m *Manager) mouseAside(Arg) {
	px, _, ok := m.gw.PointerPosition()
	if !ok {
		return
	}
	geom := m.activeMonitor().Geom
	m.gw.WarpPointer(geom.X+geom.Width-px, 0)
}

func (m *Manager) quit(a Arg) {
	m.running = false
	m.exitCode = a.Delta
}

// resizeMaster grows or shrinks the master area, refusing adjustments that
// would squeeze either side under the minimum window size.
func (m *Manager) resizeMaster(a Arg) {
	d := m.activeMonitor().activeDesktop()
	area := m.workArea(m.curMon)
	axis := area.Width
	if d.Mode == layout.BStack {
		axis = area.Height
	}
	size := d.MasterSize + a.Delta
	master := int(m.cfg.MasterRatio*float64(axis)) + size
	if master < m.cfg.MinWindowSize || axis-master < m.cfg.MinWindowSize {
		return
	}
	d.MasterSize = size
	m.retile()
}

// resizeStack shifts stack space toward or away from the first stack
// client. In the stack modes the adjustment is refused when it would push
// any stack client under the minimum size; in Monocle and Grid the
// accumulator is inert and always accepted.
func (m *Manager) resizeStack(a Arg) {
	d := m.activeMonitor().activeDesktop()
	growth := d.Growth + a.Delta
	if d.Mode == layout.Tile || d.Mode == layout.BStack {
		area := m.workArea(m.curMon)
		axis := area.Height
		if d.Mode == layout.BStack {
			axis = area.Width
		}
		if sn := len(m.eligible(d)) - 1; sn >= 1 {
			each := (axis - growth) / sn
			first := each + (axis-growth)%sn + growth
			if each < m.cfg.MinWindowSize || first < m.cfg.MinWindowSize {
				return
			}
		}
	}
	d.Growth = growth
	m.retile()
}

func (m *Manager) rotate(a Arg) {
	mon := m.activeMonitor()
	m.changeDesktop(modIndex(mon.active, a.Delta, len(mon.desktops)))
}

// rotateFilled rotates like rotate but lands on the next desktop that has
// clients, scanning at most one full cycle.
func (m *Manager) rotateFilled(a Arg) {
	mon := m.activeMonitor()
	n := len(mon.desktops)
	for k := 1; k <= n; k++ {
		di := modIndex(mon.active, a.Delta*k, n)
		if di == mon.active {
			continue
		}
		if len(mon.desktops[di].clients) > 0 {
			m.changeDesktop(di)
			return
		}
	}
}

// changeDesktop switches the active monitor to desktop i: the incoming
// windows map before the outgoing ones unmap, current windows first and
// last respectively.
func (m *Manager) changeDesktop(i int) {
	mon := m.activeMonitor()
	if i == mon.active || i < 0 || i >= len(mon.desktops) {
		return
	}
	old := mon.active
	nd := &mon.desktops[i]
	od := &mon.desktops[old]
	mon.previous = old
	mon.active = i

	if c := m.arena.get(nd.current); c != nil {
		m.gw.MapWindow(c.Window)
	}
	for _, id := range nd.clients {
		if id == nd.current {
			continue
		}
		if c := m.arena.get(id); c != nil {
			m.gw.MapWindow(c.Window)
		}
	}
	for _, id := range od.clients {
		if id == od.current {
			continue
		}
		if c := m.arena.get(id); c != nil {
			m.gw.UnmapWindow(c.Window)
		}
	}
	if c := m.arena.get(od.current); c != nil {
		m.gw.UnmapWindow(c.Window)
	}

	m.retile()
	m.focusClient(nd.current)
	m.emitStatus()
}

// clientToDesktop sends the current client to desktop i on the same
// monitor, where it lands at the tail and becomes that desktop's focus
// candidate.
func (m *Manager) clientToDesktop(a Arg) {
	mon := m.activeMonitor()
	sd := mon.activeDesktop()
	i := a.Desktop
	if i == mon.active || i < 0 || i >= len(mon.desktops) {
		return
	}
	id := sd.current
	c := m.arena.get(id)
	if c == nil {
		return
	}

	sd.detach(id)
	m.repairFocus(sd, id)
	td := &mon.desktops[i]
	td.clients = append(td.clients, id)
	td.prevFocus = td.current
	td.current = id
	m.gw.UnmapWindow(c.Window)

	if m.cfg.FollowWindow {
		m.changeDesktop(i)
	} else {
		m.focusClient(sd.current)
	}
	m.emitStatus()
}

func (m *Manager) changeMonitor(a Arg) {
	n := len(m.monitors)
	if n < 2 {
		return
	}
	t := modIndex(m.curMon, a.Delta, n)
	if t == m.curMon {
		return
	}
	m.curMon = t
	m.focusClient(m.activeMonitor().activeDesktop().current)
	m.emitStatus()
}

// clientToMonitor sends the current client to the visible desktop of
// another monitor. It stays mapped and becomes that desktop's focus
// candidate; both monitors re-tile.
func (m *Manager) clientToMonitor(a Arg) {
	n := len(m.monitors)
	if n < 2 {
		return
	}
	t := modIndex(m.curMon, a.Delta, n)
	if t == m.curMon {
		return
	}
	sd := m.activeMonitor().activeDesktop()
	id := sd.current
	if m.arena.get(id) == nil {
		return
	}

	sd.detach(id)
	m.repairFocus(sd, id)
	tgt := &m.monitors[t]
	td := tgt.activeDesktop()
	td.clients = append(td.clients, id)
	td.prevFocus = td.current
	td.current = id

	m.retileMonitor(t)
	m.restack(tgt)
	m.focusClient(sd.current)
	m.emitStatus()
}

// switchMode sets the desktop layout; selecting the active mode again
// sinks every floating client back into the tiles.
func (m *Manager) switchMode(a Arg) {
	d := m.activeMonitor().activeDesktop()
	if d.Mode == a.Mode {
		for _, id := range d.clients {
			if c := m.arena.get(id); c != nil {
				c.Floating = false
			}
		}
	}
	d.Mode = a.Mode
	m.retile()
	m.focusClient(d.current)
	m.emitStatus()
}

// spawn starts the command in its own session so it survives the window
// manager and never holds the display connection.
func (m *Manager) spawn(a Arg) {
	if len(a.Argv) == 0 {
		return
	}
	cmd := exec.Command(a.Argv[0], a.Argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		m.log.Warn("spawn failed", "command", a.Argv[0], "error", err)
		return
	}
	// The SIGCHLD reaper collects the exit status; the handle is not needed.
	if err := cmd.Process.Release(); err != nil {
		m.log.Debug("release spawned process", "error", err)
	}
}
