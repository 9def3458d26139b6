package wm

import "github.com/Cloudef/monsterwm-xcb/internal/layout"

// Gateway is the core's only display surface. The x11 package implements it
// over xcb; tests implement it with an in-memory fake. Command methods are
// fire-and-forget: the display round-trips on Flush, and per-window failures
// surface as later destroy notifies rather than as errors here.
type Gateway interface {
	// Event stream.
	WaitEvent() (Event, error)
	Flush() error

	// Window commands.
	MapWindow(Window)
	UnmapWindow(Window)
	MoveWindow(w Window, x, y int)
	ResizeWindow(w Window, width, height int)
	MoveResizeWindow(w Window, x, y, width, height int)
	RaiseWindow(Window)
	ConfigureWindow(w Window, req ConfigureRequestEvent)
	SetBorderWidth(w Window, width int)
	SetBorderColor(w Window, rgb uint32)
	SetFullscreenState(w Window, fullscreen bool)
	SetActiveWindow(Window)
	ClearActiveWindow()
	FocusWindow(Window)
	SendDelete(Window)
	KillWindow(Window)

	// Queries.
	WindowGeometry(Window) (layout.Rect, bool)
	WindowClass(Window) (instance, class string, ok bool)
	WindowTransient(Window) bool
	WindowUrgent(Window) bool
	WindowOverrideRedirect(Window) bool
	WindowFullscreenHint(Window) bool
	WindowSupportsDelete(Window) bool
	PointerPosition() (x, y int, ok bool)

	// Input.
	GrabPointer() bool
	UngrabPointer()
	GrabClientButtons(Window)
	SelectClientEvents(Window)
	ReplayPointer()
	WarpPointer(dx, dy int)
}
