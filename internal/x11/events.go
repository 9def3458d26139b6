package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/Cloudef/monsterwm-xcb/internal/wm"
)

// WaitEvent blocks for the next display event and decodes it. Protocol
// errors from earlier fire-and-forget commands are logged and skipped; a
// nil read means the connection is gone.
func (c *Conn) WaitEvent() (wm.Event, error) {
	for {
		ev, xerr := c.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, errors.New("display connection closed")
		}
		if xerr != nil {
			c.log.Debug("x error", "error", xerr.Error())
			continue
		}
		return c.decode(ev), nil
	}
}

func (c *Conn) decode(ev xgb.Event) wm.Event {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return wm.MapRequestEvent{Window: wm.Window(e.Window)}
	case xproto.DestroyNotifyEvent:
		return wm.DestroyNotifyEvent{Window: wm.Window(e.Window)}
	case xproto.UnmapNotifyEvent:
		return wm.UnmapNotifyEvent{
			Window: wm.Window(e.Window),
			OnRoot: e.Event == c.root,
		}
	case xproto.ConfigureRequestEvent:
		return wm.ConfigureRequestEvent{
			Window:      wm.Window(e.Window),
			X:           int(e.X),
			Y:           int(e.Y),
			Width:       int(e.Width),
			Height:      int(e.Height),
			BorderWidth: int(e.BorderWidth),
			Sibling:     wm.Window(e.Sibling),
			StackMode:   e.StackMode,
			Mask:        e.ValueMask,
		}
	case xproto.ClientMessageEvent:
		return c.decodeClientMessage(e)
	case xproto.PropertyNotifyEvent:
		return wm.PropertyNotifyEvent{
			Window:       wm.Window(e.Window),
			HintsChanged: e.Atom == xproto.AtomWmHints,
		}
	case xproto.EnterNotifyEvent:
		return wm.EnterNotifyEvent{
			Window:   wm.Window(e.Event),
			Normal:   e.Mode == xproto.NotifyModeNormal,
			Inferior: e.Detail == xproto.NotifyDetailInferior,
		}
	case xproto.ButtonPressEvent:
		return wm.ButtonPressEvent{
			Window: wm.Window(e.Event),
			Button: uint8(e.Detail),
			State:  e.State,
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
		}
	case xproto.ButtonReleaseEvent:
		return wm.ButtonReleaseEvent{
			Window: wm.Window(e.Event),
			Button: uint8(e.Detail),
		}
	case xproto.KeyPressEvent:
		return wm.KeyPressEvent{Keycode: uint8(e.Detail), State: e.State}
	case xproto.KeyReleaseEvent:
		return wm.KeyReleaseEvent{Keycode: uint8(e.Detail), State: e.State}
	case xproto.MotionNotifyEvent:
		return wm.MotionEvent{
			Window: wm.Window(e.Event),
			RootX:  int(e.RootX),
			RootY:  int(e.RootY),
			State:  e.State,
		}
	default:
		return wm.UnknownEvent{Name: fmt.Sprintf("%T", ev)}
	}
}

// decodeClientMessage classifies the two messages the core reacts to:
// fullscreen state requests and window activation. Everything else decodes
// as unknown.
func (c *Conn) decodeClientMessage(e xproto.ClientMessageEvent) wm.Event {
	if e.Format != 32 {
		return wm.UnknownEvent{Name: "client-message"}
	}
	data := e.Data.Data32
	switch e.Type {
	case c.netWmState:
		if len(data) >= 3 &&
			(xproto.Atom(data[1]) == c.netFullscreen || xproto.Atom(data[2]) == c.netFullscreen) {
			return wm.ClientMessageEvent{
				Window:  wm.Window(e.Window),
				Message: wm.MessageFullscreen,
				Action:  data[0],
			}
		}
	case c.netActive:
		return wm.ClientMessageEvent{
			Window:  wm.Window(e.Window),
			Message: wm.MessageActivate,
		}
	}
	return wm.UnknownEvent{Name: "client-message"}
}
