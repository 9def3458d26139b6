package wm

import (
	"testing"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

func TestDrag_MoveFollowsPointer(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)
	id := mapWin(t, m, gw, 1)

	gw.pointerX, gw.pointerY = 500, 400
	m.beginDrag(false)
	if m.phase != PhaseDragging {
		t.Fatalf("phase = %v, want dragging", m.phase)
	}
	if !gw.has("grabpointer") {
		t.Fatalf("pointer not grabbed")
	}

	// window at 10,10 plus the 20,10 pointer delta
	m.Dispatch(MotionEvent{Window: 1, RootX: 520, RootY: 410})
	if !gw.has("move 1 30,20") {
		t.Fatalf("wrong move: %v", gw.filtered("move"))
	}

	m.Dispatch(ButtonReleaseEvent{})
	if m.phase != PhaseIdle {
		t.Fatalf("release did not end the drag")
	}
	if !gw.has("ungrabpointer") {
		t.Fatalf("pointer grab not released")
	}
	if !m.arena.get(id).Floating {
		t.Fatalf("hand-placed client is not floating")
	}
}

func TestDrag_ResizeFloorsAtMinimum(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)
	mapWin(t, m, gw, 1)

	gw.pointerX, gw.pointerY = 500, 400
	m.beginDrag(true)

	// 300x200 shrunk by 400 in both axes clamps to the 50px floor
	m.Dispatch(MotionEvent{Window: 1, RootX: 100, RootY: 0})
	if !gw.has("resize 1 50x50") {
		t.Fatalf("floor not applied: %v", gw.filtered("resize"))
	}

	m.Dispatch(MotionEvent{Window: 1, RootX: 600, RootY: 450})
	if !gw.has("resize 1 400x250") {
		t.Fatalf("growth not applied: %v", gw.filtered("resize"))
	}
}

func TestDrag_GrabFailureAborts(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)
	id := mapWin(t, m, gw, 1)

	gw.grabFails = true
	m.beginDrag(false)
	if m.phase != PhaseIdle {
		t.Fatalf("failed grab entered the dragging phase")
	}
	if gw.has("ungrabpointer") {
		t.Fatalf("released a grab that was never taken")
	}
	if m.arena.get(id).Floating {
		t.Fatalf("aborted drag floated the client")
	}
}

func TestDrag_EmptyDesktopIsNoOp(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)

	m.beginDrag(false)
	if m.phase != PhaseIdle {
		t.Fatalf("drag started with nothing to drag")
	}
	if gw.has("grabpointer") {
		t.Fatalf("grabbed the pointer with nothing to drag")
	}
}

func TestDrag_RestrictedEventsAreDropped(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)
	id := mapWin(t, m, gw, 1)

	gw.pointerX, gw.pointerY = 500, 400
	m.beginDrag(false)

	// destroy and unmap wait until the drag ends
	m.Dispatch(DestroyNotifyEvent{Window: 1})
	m.Dispatch(UnmapNotifyEvent{Window: 1, OnRoot: true})
	if m.arena.get(id) == nil {
		t.Fatalf("restricted event removed the dragged client")
	}
	if m.phase != PhaseDragging {
		t.Fatalf("restricted event ended the drag")
	}

	// any key ends the drag
	m.Dispatch(KeyPressEvent{Keycode: 53, State: 0})
	if m.phase != PhaseIdle {
		t.Fatalf("key press did not end the drag")
	}
}

func TestDrag_FullscreenClientDropsOut(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)
	id := mapWin(t, m, gw, 1)
	m.Dispatch(ClientMessageEvent{Window: 1, Message: MessageFullscreen, Action: FullscreenAdd})
	if !m.arena.get(id).Fullscreen {
		t.Fatalf("fullscreen request ignored")
	}

	gw.pointerX, gw.pointerY = 500, 400
	m.beginDrag(false)
	if m.arena.get(id).Fullscreen {
		t.Fatalf("drag started on a fullscreen client")
	}
	if !gw.has("fullscreenstate 1 false") {
		t.Fatalf("fullscreen property not withdrawn: %v", gw.filtered("fullscreenstate"))
	}
	if m.phase != PhaseDragging {
		t.Fatalf("drag did not start after leaving fullscreen")
	}
}

func TestDrag_StaleClientEndsCleanly(t *testing.T) {
	m, gw, _ := newTestManager(t, nil)
	id := mapWin(t, m, gw, 1)

	gw.pointerX, gw.pointerY = 500, 400
	m.beginDrag(false)
	m.removeClient(id)

	m.Dispatch(MotionEvent{Window: 1, RootX: 600, RootY: 500})
	if m.phase != PhaseIdle {
		t.Fatalf("stale drag kept running")
	}
	if !gw.has("ungrabpointer") {
		t.Fatalf("stale drag kept the pointer grab")
	}
}

func TestDrag_CrossingMonitorsTransfersClient(t *testing.T) {
	m, gw, _ := newTestManager(t, nil,
		layout.Rect{Width: 1000, Height: 800},
		layout.Rect{X: 1000, Width: 1000, Height: 800},
	)
	mapWin(t, m, gw, 1)
	id := mapWin(t, m, gw, 2)

	gw.pointerX, gw.pointerY = 500, 400
	m.beginDrag(false)
	gw.reset()

	m.Dispatch(MotionEvent{Window: 2, RootX: 1500, RootY: 400})
	if m.curMon != 1 {
		t.Fatalf("active monitor = %d, want 1", m.curMon)
	}
	td := m.monitors[1].activeDesktop()
	if len(td.clients) != 1 || m.arena.get(td.current).Window != 2 {
		t.Fatalf("client did not land on the target desktop")
	}
	// re-homing unmaps, then maps again on the other side
	ui, mi := callIndex(gw.calls, "unmap 2"), callIndex(gw.calls, "map 2")
	if ui < 0 || mi < 0 || ui > mi {
		t.Fatalf("unmap/map order wrong: %v", gw.calls)
	}
	// the pointer delta still applies against the original origin
	if !gw.has("move 2 1010,10") {
		t.Fatalf("drag did not continue after the transfer: %v", gw.filtered("move"))
	}
	if m.phase != PhaseDragging {
		t.Fatalf("transfer ended the drag")
	}

	m.Dispatch(ButtonReleaseEvent{})
	if !m.arena.get(id).Floating {
		t.Fatalf("dropped client is not floating")
	}
	assertRegistry(t, m)
}
