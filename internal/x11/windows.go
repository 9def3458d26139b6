package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
	"github.com/Cloudef/monsterwm-xcb/internal/wm"
)

// Window commands. These are fire-and-forget: requests are queued on the
// connection and round-trip on Flush, and failures for windows that died
// in flight come back as destroy notifies.

func (c *Conn) MapWindow(w wm.Window) {
	xproto.MapWindow(c.xu.Conn(), xproto.Window(w))
}

func (c *Conn) UnmapWindow(w wm.Window) {
	xproto.UnmapWindow(c.xu.Conn(), xproto.Window(w))
}

func (c *Conn) MoveWindow(w wm.Window, x, y int) {
	xproto.ConfigureWindow(c.xu.Conn(), xproto.Window(w),
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(x), uint32(y)})
}

func (c *Conn) ResizeWindow(w wm.Window, width, height int) {
	xproto.ConfigureWindow(c.xu.Conn(), xproto.Window(w),
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)})
}

func (c *Conn) MoveResizeWindow(w wm.Window, x, y, width, height int) {
	xproto.ConfigureWindow(c.xu.Conn(), xproto.Window(w),
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(x), uint32(y), uint32(width), uint32(height)})
}

func (c *Conn) RaiseWindow(w wm.Window) {
	xproto.ConfigureWindow(c.xu.Conn(), xproto.Window(w),
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

// ConfigureWindow forwards a configure request unchanged. The value list
// must follow mask bit order, lowest bit first.
func (c *Conn) ConfigureWindow(w wm.Window, req wm.ConfigureRequestEvent) {
	mask, values := configureValues(req)
	if mask == 0 {
		return
	}
	xproto.ConfigureWindow(c.xu.Conn(), xproto.Window(w), mask, values)
}

// configureValues rebuilds the wire value list for a forwarded configure
// request from the decoded event fields.
func configureValues(req wm.ConfigureRequestEvent) (uint16, []uint32) {
	var values []uint32
	if req.Mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(req.X))
	}
	if req.Mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(req.Y))
	}
	if req.Mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(req.Width))
	}
	if req.Mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(req.Height))
	}
	if req.Mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(req.BorderWidth))
	}
	if req.Mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(req.Sibling))
	}
	if req.Mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(req.StackMode))
	}
	return req.Mask, values
}

func (c *Conn) SetBorderWidth(w wm.Window, width int) {
	xproto.ConfigureWindow(c.xu.Conn(), xproto.Window(w),
		xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
}

// SetBorderColor writes the border pixel directly. On the usual TrueColor
// visuals the pixel value is the raw 0xRRGGBB color.
func (c *Conn) SetBorderColor(w wm.Window, rgb uint32) {
	xproto.ChangeWindowAttributes(c.xu.Conn(), xproto.Window(w),
		xproto.CwBorderPixel, []uint32{rgb})
}

// SetFullscreenState replaces the window's _NET_WM_STATE property with
// either a single fullscreen atom or an empty list.
func (c *Conn) SetFullscreenState(w wm.Window, fullscreen bool) {
	if fullscreen {
		data := make([]byte, 4)
		xgb.Put32(data, uint32(c.netFullscreen))
		xproto.ChangeProperty(c.xu.Conn(), xproto.PropModeReplace, xproto.Window(w),
			c.netWmState, xproto.AtomAtom, 32, 1, data)
		return
	}
	xproto.ChangeProperty(c.xu.Conn(), xproto.PropModeReplace, xproto.Window(w),
		c.netWmState, xproto.AtomAtom, 32, 0, nil)
}

func (c *Conn) SetActiveWindow(w wm.Window) {
	data := make([]byte, 4)
	xgb.Put32(data, uint32(w))
	xproto.ChangeProperty(c.xu.Conn(), xproto.PropModeReplace, c.root,
		c.netActive, xproto.AtomWindow, 32, 1, data)
}

func (c *Conn) ClearActiveWindow() {
	xproto.DeleteProperty(c.xu.Conn(), c.root, c.netActive)
}

func (c *Conn) FocusWindow(w wm.Window) {
	xproto.SetInputFocus(c.xu.Conn(), xproto.InputFocusPointerRoot,
		xproto.Window(w), xproto.TimeCurrentTime)
}

// SendDelete asks the client to close itself via WM_DELETE_WINDOW.
func (c *Conn) SendDelete(w wm.Window) {
	c.sendDelete(xproto.Window(w))
}

func (c *Conn) sendDelete(win xproto.Window) {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   c.wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(c.wmDelete), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	xproto.SendEvent(c.xu.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

func (c *Conn) KillWindow(w wm.Window) {
	xproto.KillClient(c.xu.Conn(), uint32(w))
}

// Queries. Each performs a round trip; a dead window reports as a missing
// reply and the zero answer.

// WindowGeometry reports the border box origin and the client size. Managed
// windows are root children, so the parent-relative reply is already in
// root coordinates.
func (c *Conn) WindowGeometry(w wm.Window) (layout.Rect, bool) {
	geom, err := xproto.GetGeometry(c.xu.Conn(), xproto.Drawable(w)).Reply()
	if err != nil {
		return layout.Rect{}, false
	}
	return layout.Rect{
		X:      int(geom.X),
		Y:      int(geom.Y),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

func (c *Conn) WindowClass(w wm.Window) (instance, class string, ok bool) {
	reply, err := icccm.WmClassGet(c.xu, xproto.Window(w))
	if err != nil {
		return "", "", false
	}
	return reply.Instance, reply.Class, true
}

func (c *Conn) WindowTransient(w wm.Window) bool {
	owner, err := icccm.WmTransientForGet(c.xu, xproto.Window(w))
	return err == nil && owner != 0
}

func (c *Conn) WindowUrgent(w wm.Window) bool {
	hints, err := icccm.WmHintsGet(c.xu, xproto.Window(w))
	return err == nil && hints.Flags&icccm.HintUrgency != 0
}

func (c *Conn) WindowOverrideRedirect(w wm.Window) bool {
	attr, err := xproto.GetWindowAttributes(c.xu.Conn(), xproto.Window(w)).Reply()
	return err == nil && attr.OverrideRedirect
}

// WindowFullscreenHint reports whether the client mapped with fullscreen
// already requested in _NET_WM_STATE.
func (c *Conn) WindowFullscreenHint(w wm.Window) bool {
	states, err := ewmh.WmStateGet(c.xu, xproto.Window(w))
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_FULLSCREEN" {
			return true
		}
	}
	return false
}

func (c *Conn) WindowSupportsDelete(w wm.Window) bool {
	protocols, err := icccm.WmProtocolsGet(c.xu, xproto.Window(w))
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

func (c *Conn) PointerPosition() (x, y int, ok bool) {
	reply, err := xproto.QueryPointer(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(reply.RootX), int(reply.RootY), true
}

// Input.

// GrabPointer takes an async pointer grab for an interactive move or
// resize. Reports false when another grab is already active.
func (c *Conn) GrabPointer() bool {
	reply, err := xproto.GrabPointer(c.xu.Conn(), false, c.root,
		uint16(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	return err == nil && reply.Status == xproto.GrabStatusSuccess
}

func (c *Conn) UngrabPointer() {
	xproto.UngrabPointer(c.xu.Conn(), xproto.TimeCurrentTime)
}

// GrabClientButtons installs the pointer bindings on a managed window. With
// click to focus, plain button 1 is also grabbed synchronously so the click
// can be replayed to the client after focusing.
func (c *Conn) GrabClientButtons(w wm.Window) {
	conn := c.xu.Conn()
	win := xproto.Window(w)
	if c.opts.ClickToFocus {
		xproto.GrabButton(conn, true, win,
			uint16(xproto.EventMaskButtonPress),
			xproto.GrabModeSync, xproto.GrabModeAsync,
			xproto.WindowNone, xproto.CursorNone,
			xproto.ButtonIndex1, xproto.ModMaskAny)
	}
	for _, b := range c.opts.Buttons {
		for _, extra := range c.grabVariants() {
			xproto.GrabButton(conn, false, win,
				uint16(xproto.EventMaskButtonPress),
				xproto.GrabModeAsync, xproto.GrabModeAsync,
				xproto.WindowNone, xproto.CursorNone,
				b.Button, b.Mod|extra)
		}
	}
}

// SelectClientEvents subscribes to the per-window notifications the event
// loop consumes. Enter events are only useful under focus-follows-mouse.
func (c *Conn) SelectClientEvents(w wm.Window) {
	mask := uint32(xproto.EventMaskPropertyChange)
	if c.opts.FollowMouse {
		mask |= xproto.EventMaskEnterWindow
	}
	xproto.ChangeWindowAttributes(c.xu.Conn(), xproto.Window(w),
		xproto.CwEventMask, []uint32{mask})
}

// ReplayPointer releases a synchronous button grab and replays the frozen
// click to the client.
func (c *Conn) ReplayPointer() {
	xproto.AllowEvents(c.xu.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
}

// WarpPointer moves the pointer relative to its current position.
func (c *Conn) WarpPointer(dx, dy int) {
	xproto.WarpPointer(c.xu.Conn(), xproto.WindowNone, xproto.WindowNone,
		0, 0, 0, 0, int16(dx), int16(dy))
}
