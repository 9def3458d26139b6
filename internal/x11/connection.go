// Package x11 implements the display gateway over xcb: connection setup,
// event decoding, window commands and input grabs. The wm core never sees
// an xproto type; everything crosses the boundary as core-owned data.
package x11

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/Cloudef/monsterwm-xcb/internal/wm"
)

// ErrOtherWM reports that the root window's substructure redirect is
// already owned, meaning another window manager is running.
var ErrOtherWM = errors.New("another window manager is already running")

// wmName is published on the root so status bars can identify us.
const wmName = "monsterwm"

// Options configure the connection. Buttons are needed up front because
// grabs are installed per client window as windows appear.
type Options struct {
	Log          *slog.Logger
	FollowMouse  bool
	ClickToFocus bool
	Buttons      []wm.ButtonBinding
}

// Conn is the live display connection. It implements wm.Gateway; the
// lifecycle methods (GrabKeys, Monitors, Cleanup, Close) are for the entry
// point only.
type Conn struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *slog.Logger
	opts Options

	numLock uint16

	wmProtocols   xproto.Atom
	wmDelete      xproto.Atom
	netSupported  xproto.Atom
	netWmState    xproto.Atom
	netFullscreen xproto.Atom
	netActive     xproto.Atom
	netWmName     xproto.Atom
}

var _ wm.Gateway = (*Conn)(nil)

// New connects to the display and claims window-manager status on the root
// window. ErrOtherWM is returned when the redirect is already taken.
func New(opts Options) (*Conn, error) {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to display: %w", err)
	}
	keybind.Initialize(xu)

	c := &Conn{
		xu:   xu,
		root: xu.RootWin(),
		log:  opts.Log,
		opts: opts,
	}
	if err := c.internAtoms(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	if err := c.acquireRoot(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	c.numLock = c.findNumLockMask()
	c.publishSupported()
	return c, nil
}

// acquireRoot selects the substructure redirect on the root; exactly one
// client may hold it, so an Access error identifies a running manager.
func (c *Conn) acquireRoot() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskButtonPress)
	if c.opts.FollowMouse {
		mask |= uint32(xproto.EventMaskPointerMotion)
	}
	err := xproto.ChangeWindowAttributesChecked(c.xu.Conn(), c.root,
		xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return ErrOtherWM
		}
		return fmt.Errorf("select root events: %w", err)
	}
	return nil
}

func (c *Conn) internAtoms() error {
	for _, a := range []struct {
		dst  *xproto.Atom
		name string
	}{
		{&c.wmProtocols, "WM_PROTOCOLS"},
		{&c.wmDelete, "WM_DELETE_WINDOW"},
		{&c.netSupported, "_NET_SUPPORTED"},
		{&c.netWmState, "_NET_WM_STATE"},
		{&c.netFullscreen, "_NET_WM_STATE_FULLSCREEN"},
		{&c.netActive, "_NET_ACTIVE_WINDOW"},
		{&c.netWmName, "_NET_WM_NAME"},
	} {
		reply, err := xproto.InternAtom(c.xu.Conn(), false, uint16(len(a.name)), a.name).Reply()
		if err != nil {
			return fmt.Errorf("intern atom %s: %w", a.name, err)
		}
		*a.dst = reply.Atom
	}
	return nil
}

func (c *Conn) publishSupported() {
	atoms := []xproto.Atom{c.netSupported, c.netWmState, c.netFullscreen, c.netActive, c.netWmName}
	data := make([]byte, 4*len(atoms))
	for i, a := range atoms {
		xgb.Put32(data[i*4:], uint32(a))
	}
	xproto.ChangeProperty(c.xu.Conn(), xproto.PropModeReplace, c.root,
		c.netSupported, xproto.AtomAtom, 32, uint32(len(atoms)), data)
	xproto.ChangeProperty(c.xu.Conn(), xproto.PropModeReplace, c.root,
		c.netWmName, xproto.AtomString, 8, uint32(len(wmName)), []byte(wmName))
}

// findNumLockMask walks the keycodes bound to Num_Lock through the modifier
// map; 0 when the keyboard has no such modifier.
func (c *Conn) findNumLockMask() uint16 {
	for _, code := range keybind.StrToKeycodes(c.xu, "Num_Lock") {
		if mask := keybind.ModGet(c.xu, code); mask != 0 {
			return mask
		}
	}
	return 0
}

// NumLockMask returns the discovered NumLock modifier bit for the core's
// state cleaning.
func (c *Conn) NumLockMask() uint16 {
	return c.numLock
}

// grabVariants are the lock-modifier combinations every grab is repeated
// under, so bindings fire regardless of CapsLock and NumLock state.
func (c *Conn) grabVariants() []uint16 {
	return []uint16{0, xproto.ModMaskLock, c.numLock, c.numLock | xproto.ModMaskLock}
}

// ResolveKey maps a configured key name to its keycodes.
func (c *Conn) ResolveKey(name string) ([]uint8, error) {
	var codes []uint8
	for _, code := range keybind.StrToKeycodes(c.xu, name) {
		if code != 0 {
			codes = append(codes, uint8(code))
		}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("no keycode for %q", name)
	}
	return codes, nil
}

// GrabKeys drops all existing key grabs and installs one per binding
// keycode and lock variant.
func (c *Conn) GrabKeys(keys []wm.KeyBinding) {
	conn := c.xu.Conn()
	xproto.UngrabKey(conn, xproto.GrabAny, c.root, xproto.ModMaskAny)
	for _, k := range keys {
		for _, code := range k.Codes {
			for _, extra := range c.grabVariants() {
				xproto.GrabKey(conn, true, c.root, k.Mod|extra,
					xproto.Keycode(code), xproto.GrabModeAsync, xproto.GrabModeAsync)
			}
		}
	}
}

// Flush forces a display round trip, surfacing a dead connection as an
// error.
func (c *Conn) Flush() error {
	if _, err := xproto.GetInputFocus(c.xu.Conn()).Reply(); err != nil {
		return err
	}
	return nil
}

// Cleanup releases the grabs, asks every remaining top-level window to
// close and hands input focus back to the pointer root.
func (c *Conn) Cleanup() {
	conn := c.xu.Conn()
	xproto.UngrabKey(conn, xproto.GrabAny, c.root, xproto.ModMaskAny)
	xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
	if tree, err := xproto.QueryTree(conn, c.root).Reply(); err == nil {
		for _, child := range tree.Children {
			c.sendDelete(child)
		}
	}
	xproto.SetInputFocus(conn, xproto.InputFocusPointerRoot,
		xproto.Window(xproto.InputFocusPointerRoot), xproto.TimeCurrentTime)
	if err := c.Flush(); err != nil {
		c.log.Debug("cleanup flush", "error", err)
	}
}

// Close disconnects from the display.
func (c *Conn) Close() {
	c.xu.Conn().Close()
}
