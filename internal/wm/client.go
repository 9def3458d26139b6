package wm

// Window is an opaque window handle. The gateway converts it to and from
// protocol identifiers; nothing in this package touches the display.
type Window uint32

// Client is the managed-window record. A Client exists exactly as long as
// its window is managed: created on map request, dropped on destroy, unmap
// or kill.
type Client struct {
	Window     Window
	Urgent     bool
	Transient  bool
	Fullscreen bool
	Floating   bool
}

// fft reports whether the client is excluded from tiling.
func (c *Client) fft() bool {
	return c.Fullscreen || c.Floating || c.Transient
}
