package wm

import "strings"

func (m *Manager) handleMapRequest(e Event) {
	ev := e.(MapRequestEvent)
	if m.gw.WindowOverrideRedirect(ev.Window) {
		return
	}
	if _, tracked := m.findWindow(ev.Window); tracked {
		return
	}

	mon := m.activeMonitor()
	newDesk := mon.active
	follow := m.cfg.FollowWindow
	floating := false
	if instance, class, ok := m.gw.WindowClass(ev.Window); ok {
		for _, r := range m.cfg.Rules {
			if !strings.Contains(class, r.Class) && !strings.Contains(instance, r.Class) {
				continue
			}
			follow = r.Follow
			floating = r.Floating
			if r.Desktop != nil && *r.Desktop >= 0 && *r.Desktop < len(mon.desktops) {
				newDesk = *r.Desktop
			}
			break
		}
	}

	id := m.addClient(ev.Window, m.curMon, newDesk)
	c := m.arena.get(id)
	c.Transient = m.gw.WindowTransient(ev.Window)
	c.Floating = floating || c.Transient
	if m.gw.WindowFullscreenHint(ev.Window) {
		m.setFullscreen(clientLoc{mon: m.curMon, desk: newDesk, id: id}, true)
	}

	if newDesk == mon.active {
		m.retile()
		m.gw.MapWindow(ev.Window)
		m.focusClient(id)
	} else if follow {
		m.changeDesktop(newDesk)
	}
	m.gw.SelectClientEvents(ev.Window)
	m.gw.GrabClientButtons(ev.Window)
	m.emitStatus()
}

// addClient allocates the record and links it into the desktop; the new
// client becomes the desktop's focus candidate.
func (m *Manager) addClient(w Window, mi, di int) ClientID {
	d := &m.monitors[mi].desktops[di]
	id := m.arena.alloc(Client{Window: w})
	d.attach(id, m.cfg.AttachAside)
	d.prevFocus = d.current
	d.current = id
	return id
}

func (m *Manager) handleDestroyNotify(e Event) {
	ev := e.(DestroyNotifyEvent)
	if loc, ok := m.findWindow(ev.Window); ok {
		m.removeClient(loc.id)
	}
	m.emitStatus()
}

func (m *Manager) handleUnmapNotify(e Event) {
	ev := e.(UnmapNotifyEvent)
	if !ev.OnRoot {
		if loc, ok := m.findWindow(ev.Window); ok {
			m.removeClient(loc.id)
		}
	}
	m.emitStatus()
}

// removeClient forgets a managed window: unlink, repair the owning
// desktop's focus pair, refresh and re-tile when the desktop is visible.
// Unknown and stale IDs are no-ops, so kill followed by the destroy notify
// removes exactly once.
func (m *Manager) removeClient(id ClientID) {
	if m.arena.get(id) == nil {
		return
	}
	loc, ok := m.locate(id)
	if !ok {
		m.arena.release(id)
		return
	}

	mon := &m.monitors[loc.mon]
	d := &mon.desktops[loc.desk]
	wasCurrent := id == d.current
	d.detach(id)
	m.repairFocus(d, id)
	m.arena.release(id)

	if loc.desk != mon.active {
		return
	}
	if loc.mon == m.curMon {
		if wasCurrent || len(d.clients) <= 1 {
			m.focusClient(d.current)
		} else {
			m.retile()
		}
		return
	}
	m.retileMonitor(loc.mon)
	m.refreshBorders()
	m.restack(mon)
}

func (m *Manager) handleConfigureRequest(e Event) {
	ev := e.(ConfigureRequestEvent)
	if loc, ok := m.findWindow(ev.Window); ok && m.arena.get(loc.id).Fullscreen {
		// Fullscreen geometry is not negotiable.
		geom := m.monitors[loc.mon].Geom
		m.gw.MoveResizeWindow(ev.Window, geom.X, geom.Y, geom.Width, geom.Height)
	} else {
		mi := m.curMon
		if ok {
			mi = loc.mon
		} else if ev.Mask&ConfigX != 0 && ev.Mask&ConfigY != 0 {
			mi = m.monitorAt(ev.X, ev.Y)
		}
		m.gw.ConfigureWindow(ev.Window, m.clampConfigure(ev, mi))
	}
	m.retile()
}

// clampConfigure bounds the requested fields to the monitor: sizes are
// capped at the monitor dimensions and positions pulled back so the window
// stays inside.
func (m *Manager) clampConfigure(ev ConfigureRequestEvent, mi int) ConfigureRequestEvent {
	r := m.monitors[mi].Geom
	cur, ok := m.gw.WindowGeometry(ev.Window)
	if !ok {
		cur = r
	}

	w := cur.Width
	if ev.Mask&ConfigWidth != 0 {
		w = ev.Width
	}
	h := cur.Height
	if ev.Mask&ConfigHeight != 0 {
		h = ev.Height
	}
	if w > r.Width {
		w = r.Width
	}
	if h > r.Height {
		h = r.Height
	}

	x := cur.X
	if ev.Mask&ConfigX != 0 {
		x = ev.X
	}
	y := cur.Y
	if ev.Mask&ConfigY != 0 {
		y = ev.Y
	}
	if x+w > r.X+r.Width {
		x = r.X + r.Width - w
	}
	if x < r.X {
		x = r.X
	}
	if y+h > r.Y+r.Height {
		y = r.Y + r.Height - h
	}
	if y < r.Y {
		y = r.Y
	}

	ev.X, ev.Y, ev.Width, ev.Height = x, y, w, h
	return ev
}

func (m *Manager) handleClientMessage(e Event) {
	ev := e.(ClientMessageEvent)
	loc, ok := m.findWindow(ev.Window)
	if !ok {
		return
	}
	switch ev.Message {
	case MessageFullscreen:
		c := m.arena.get(loc.id)
		full := ev.Action == FullscreenAdd ||
			(ev.Action == FullscreenToggle && !c.Fullscreen)
		m.setFullscreen(loc, full)
	case MessageActivate:
		if loc.mon == m.curMon && loc.desk == m.monitors[loc.mon].active {
			m.focusClient(loc.id)
		}
	}
	m.retile()
}

// setFullscreen flips the fullscreen state: the window property changes
// only on a real transition, entering fullscreen pins the window to the
// whole monitor, and a visible window gets its borders and stacking
// refreshed.
func (m *Manager) setFullscreen(loc clientLoc, full bool) {
	c := m.arena.get(loc.id)
	if c == nil {
		return
	}
	if full != c.Fullscreen {
		m.gw.SetFullscreenState(c.Window, full)
	}
	c.Fullscreen = full
	mon := &m.monitors[loc.mon]
	if full {
		m.gw.MoveResizeWindow(c.Window, mon.Geom.X, mon.Geom.Y, mon.Geom.Width, mon.Geom.Height)
	}
	if loc.desk != mon.active {
		return
	}
	if loc.mon == m.curMon {
		m.focusClient(loc.id)
		return
	}
	m.refreshBorders()
	m.restack(mon)
	m.retileMonitor(loc.mon)
}

func (m *Manager) handlePropertyNotify(e Event) {
	ev := e.(PropertyNotifyEvent)
	if !ev.HintsChanged {
		return
	}
	loc, ok := m.findWindow(ev.Window)
	if !ok {
		return
	}
	c := m.arena.get(loc.id)
	cur := m.activeMonitor().activeDesktop().current
	c.Urgent = loc.id != cur && m.gw.WindowUrgent(ev.Window)
	m.emitStatus()
}

func (m *Manager) handleEnterNotify(e Event) {
	ev := e.(EnterNotifyEvent)
	if !m.cfg.FollowMouse || !ev.Normal || ev.Inferior {
		return
	}
	loc, ok := m.findWindow(ev.Window)
	if !ok || loc.desk != m.monitors[loc.mon].active {
		return
	}
	if loc.mon != m.curMon {
		m.curMon = loc.mon
		m.focusClient(loc.id)
		m.emitStatus()
		return
	}
	if loc.id != m.activeMonitor().activeDesktop().current {
		m.focusClient(loc.id)
	}
}

func (m *Manager) handleButtonPress(e Event) {
	ev := e.(ButtonPressEvent)
	loc, found := m.findWindow(ev.Window)
	visible := found && loc.desk == m.monitors[loc.mon].active

	if m.cfg.ClickToFocus && visible && ev.Button == buttonLeft {
		monChanged := loc.mon != m.curMon
		m.curMon = loc.mon
		if loc.id != m.activeMonitor().activeDesktop().current {
			m.focusClient(loc.id)
		}
		if monChanged {
			m.emitStatus()
		}
	}

	for _, b := range m.buttons {
		if b.Button != ev.Button || m.cleanMask(b.Mod) != m.cleanMask(ev.State) {
			continue
		}
		if visible && loc.mon == m.curMon && loc.id != m.activeMonitor().activeDesktop().current {
			m.focusClient(loc.id)
		}
		m.invoke(b.Action, b.Arg)
		break
	}

	if m.cfg.ClickToFocus {
		m.gw.ReplayPointer()
		if err := m.gw.Flush(); err != nil {
			m.log.Warn("flush after pointer replay", "error", err)
		}
	}
}

func (m *Manager) handleKeyPress(e Event) {
	ev := e.(KeyPressEvent)
	for _, b := range m.keys {
		if m.cleanMask(b.Mod) != m.cleanMask(ev.State) {
			continue
		}
		if !hasKeycode(b.Codes, ev.Keycode) {
			continue
		}
		m.invoke(b.Action, b.Arg)
		break
	}
}

func hasKeycode(codes []uint8, code uint8) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// handleRootMotion follows the pointer across monitors.
func (m *Manager) handleRootMotion(e Event) {
	ev := e.(MotionEvent)
	mi := m.monitorAt(ev.RootX, ev.RootY)
	if mi == m.curMon {
		return
	}
	m.curMon = mi
	m.focusClient(m.activeMonitor().activeDesktop().current)
	m.emitStatus()
}
