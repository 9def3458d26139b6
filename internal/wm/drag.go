package wm

// beginDrag enters the Dragging phase for the current client. Failing to
// read the pointer or the window geometry, or to grab the pointer, aborts
// with no state change. A fullscreen client drops out of fullscreen first.
func (m *Manager) beginDrag(resize bool) {
	d := m.activeMonitor().activeDesktop()
	id := d.current
	c := m.arena.get(id)
	if c == nil {
		return
	}
	px, py, ok := m.gw.PointerPosition()
	if !ok {
		return
	}
	geom, ok := m.gw.WindowGeometry(c.Window)
	if !ok {
		return
	}
	if !m.gw.GrabPointer() {
		return
	}
	if c.Fullscreen {
		m.setFullscreen(clientLoc{mon: m.curMon, desk: m.activeMonitor().active, id: id}, false)
		geom, ok = m.gw.WindowGeometry(c.Window)
		if !ok {
			geom = m.monitors[m.curMon].Geom
		}
	}
	m.drag = dragState{client: id, resize: resize, startX: px, startY: py, geom: geom}
	m.phase = PhaseDragging
}

// handleDragMotion applies the pointer delta to the dragged client. Move
// shifts the recorded origin, resize grows the recorded size with both
// dimensions floored at the minimum window size. Crossing into another
// monitor transfers the client there first.
func (m *Manager) handleDragMotion(e Event) {
	ev := e.(MotionEvent)
	c := m.arena.get(m.drag.client)
	if c == nil {
		m.endDrag()
		return
	}

	if mi := m.monitorAt(ev.RootX, ev.RootY); mi != m.curMon {
		m.transferDrag(mi)
		c = m.arena.get(m.drag.client)
		if c == nil {
			m.endDrag()
			return
		}
	}

	dx := ev.RootX - m.drag.startX
	dy := ev.RootY - m.drag.startY
	if m.drag.resize {
		w := m.drag.geom.Width + dx
		h := m.drag.geom.Height + dy
		if w < m.cfg.MinWindowSize {
			w = m.cfg.MinWindowSize
		}
		if h < m.cfg.MinWindowSize {
			h = m.cfg.MinWindowSize
		}
		m.gw.ResizeWindow(c.Window, w, h)
	} else {
		m.gw.MoveWindow(c.Window, m.drag.geom.X+dx, m.drag.geom.Y+dy)
	}
}

// transferDrag moves the dragged client to the target monitor's visible
// desktop mid-drag: unmap, re-home, re-tile both sides, map, and the drag
// continues with the target as the active monitor.
func (m *Manager) transferDrag(target int) {
	id := m.drag.client
	c := m.arena.get(id)
	if c == nil {
		return
	}
	sd := m.activeMonitor().activeDesktop()

	m.gw.UnmapWindow(c.Window)
	sd.detach(id)
	m.repairFocus(sd, id)
	m.retile()

	td := m.monitors[target].activeDesktop()
	td.clients = append(td.clients, id)
	td.prevFocus = td.current
	td.current = id
	m.retileMonitor(target)
	m.gw.MapWindow(c.Window)

	m.curMon = target
	m.focusClient(id)
	m.emitStatus()
}

// handleDragEnd leaves the Dragging phase on any button or key event: the
// grab is released and the client, having been hand-placed, is floating
// from here on.
func (m *Manager) handleDragEnd(Event) {
	m.endDrag()
}

func (m *Manager) endDrag() {
	m.gw.UngrabPointer()
	m.phase = PhaseIdle
	if c := m.arena.get(m.drag.client); c != nil && !c.Floating {
		c.Floating = true
	}
	m.drag = dragState{}
	m.focusClient(m.activeMonitor().activeDesktop().current)
}
