package wm

// EventKind discriminates decoded display events.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindMapRequest
	KindDestroyNotify
	KindUnmapNotify
	KindConfigureRequest
	KindClientMessage
	KindPropertyNotify
	KindEnterNotify
	KindButtonPress
	KindButtonRelease
	KindKeyPress
	KindKeyRelease
	KindMotion
)

var kindNames = map[EventKind]string{
	KindUnknown:          "unknown",
	KindMapRequest:       "map-request",
	KindDestroyNotify:    "destroy-notify",
	KindUnmapNotify:      "unmap-notify",
	KindConfigureRequest: "configure-request",
	KindClientMessage:    "client-message",
	KindPropertyNotify:   "property-notify",
	KindEnterNotify:      "enter-notify",
	KindButtonPress:      "button-press",
	KindButtonRelease:    "button-release",
	KindKeyPress:         "key-press",
	KindKeyRelease:       "key-release",
	KindMotion:           "motion",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Event is a display event decoded by the gateway into core-owned data.
type Event interface {
	Kind() EventKind
}

// Configure-request field mask bits, matching the wire protocol values.
const (
	ConfigX           uint16 = 1 << 0
	ConfigY           uint16 = 1 << 1
	ConfigWidth       uint16 = 1 << 2
	ConfigHeight      uint16 = 1 << 3
	ConfigBorderWidth uint16 = 1 << 4
	ConfigSibling     uint16 = 1 << 5
	ConfigStackMode   uint16 = 1 << 6
)

// MessageKind classifies a client message the core reacts to.
type MessageKind int

const (
	MessageFullscreen MessageKind = iota + 1
	MessageActivate
)

// Fullscreen client-message actions, matching the EWMH wire values.
const (
	FullscreenRemove uint32 = 0
	FullscreenAdd    uint32 = 1
	FullscreenToggle uint32 = 2
)

type MapRequestEvent struct {
	Window Window
}

type DestroyNotifyEvent struct {
	Window Window
}

// UnmapNotifyEvent reports a window unmap. OnRoot is set for synthetic
// notifies reported against the root window, which must not unmanage.
type UnmapNotifyEvent struct {
	Window Window
	OnRoot bool
}

type ConfigureRequestEvent struct {
	Window      Window
	X, Y        int
	Width       int
	Height      int
	BorderWidth int
	Sibling     Window
	StackMode   uint8
	Mask        uint16
}

type ClientMessageEvent struct {
	Window  Window
	Message MessageKind
	Action  uint32
}

// PropertyNotifyEvent reports a property change. Only hint changes are
// interesting to the core; the gateway pre-classifies the atom.
type PropertyNotifyEvent struct {
	Window       Window
	HintsChanged bool
}

type EnterNotifyEvent struct {
	Window   Window
	Normal   bool
	Inferior bool
}

type ButtonPressEvent struct {
	Window Window
	Button uint8
	State  uint16
	RootX  int
	RootY  int
}

type ButtonReleaseEvent struct {
	Window Window
	Button uint8
}

type KeyPressEvent struct {
	Keycode uint8
	State   uint16
}

type KeyReleaseEvent struct {
	Keycode uint8
	State   uint16
}

// MotionEvent carries pointer motion in root coordinates.
type MotionEvent struct {
	Window Window
	RootX  int
	RootY  int
	State  uint16
}

// UnknownEvent wraps an event kind the core does not dispatch on; Name is
// only used for debug logging.
type UnknownEvent struct {
	Name string
}

func (MapRequestEvent) Kind() EventKind       { return KindMapRequest }
func (DestroyNotifyEvent) Kind() EventKind    { return KindDestroyNotify }
func (UnmapNotifyEvent) Kind() EventKind      { return KindUnmapNotify }
func (ConfigureRequestEvent) Kind() EventKind { return KindConfigureRequest }
func (ClientMessageEvent) Kind() EventKind    { return KindClientMessage }
func (PropertyNotifyEvent) Kind() EventKind   { return KindPropertyNotify }
func (EnterNotifyEvent) Kind() EventKind      { return KindEnterNotify }
func (ButtonPressEvent) Kind() EventKind      { return KindButtonPress }
func (ButtonReleaseEvent) Kind() EventKind    { return KindButtonRelease }
func (KeyPressEvent) Kind() EventKind         { return KindKeyPress }
func (KeyReleaseEvent) Kind() EventKind       { return KindKeyRelease }
func (MotionEvent) Kind() EventKind           { return KindMotion }
func (UnknownEvent) Kind() EventKind          { return KindUnknown }
