package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
	"github.com/Cloudef/monsterwm-xcb/internal/wm"
)

func TestNormalizeMonitors_SortsLeftToRightTopToBottom(t *testing.T) {
	got := normalizeMonitors([]layout.Rect{
		{X: 1920, Y: 0, Width: 1080, Height: 1920},
		{X: 0, Y: 1080, Width: 1920, Height: 1080},
		{X: 0, Y: 0, Width: 1920, Height: 1080},
	}, 3000, 2160)

	want := []layout.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 0, Y: 1080, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1080, Height: 1920},
	}
	if len(got) != len(want) {
		t.Fatalf("monitor count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("monitor %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalizeMonitors_DropsMirroredOutputs(t *testing.T) {
	got := normalizeMonitors([]layout.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 0, Y: 0, Width: 1920, Height: 1080},
	}, 1920, 1080)

	if len(got) != 1 {
		t.Fatalf("monitor count = %d, want 1", len(got))
	}
	if got[0] != (layout.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}) {
		t.Fatalf("monitor = %+v, want the shared output geometry", got[0])
	}
}

func TestNormalizeMonitors_EmptyQueryFallsBackToScreen(t *testing.T) {
	got := normalizeMonitors(nil, 1280, 1024)

	if len(got) != 1 {
		t.Fatalf("monitor count = %d, want 1", len(got))
	}
	if got[0] != (layout.Rect{X: 0, Y: 0, Width: 1280, Height: 1024}) {
		t.Fatalf("fallback monitor = %+v, want whole screen", got[0])
	}
}

func TestConfigureValues_OrdersValuesByMaskBit(t *testing.T) {
	req := wm.ConfigureRequestEvent{
		X:           10,
		Y:           20,
		Width:       300,
		Height:      400,
		BorderWidth: 2,
		Sibling:     7,
		StackMode:   xproto.StackModeBelow,
		Mask: xproto.ConfigWindowX | xproto.ConfigWindowY |
			xproto.ConfigWindowWidth | xproto.ConfigWindowHeight |
			xproto.ConfigWindowBorderWidth | xproto.ConfigWindowSibling |
			xproto.ConfigWindowStackMode,
	}

	mask, values := configureValues(req)
	if mask != req.Mask {
		t.Fatalf("mask = %#x, want %#x", mask, req.Mask)
	}
	want := []uint32{10, 20, 300, 400, 2, 7, xproto.StackModeBelow}
	if len(values) != len(want) {
		t.Fatalf("value count = %d, want %d", len(values), len(want))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("value %d = %d, want %d", i, values[i], want[i])
		}
	}
}

func TestConfigureValues_PartialMaskSkipsUnsetFields(t *testing.T) {
	req := wm.ConfigureRequestEvent{
		X:      999,
		Y:      -5,
		Height: 600,
		Mask:   xproto.ConfigWindowY | xproto.ConfigWindowHeight,
	}

	mask, values := configureValues(req)
	if mask != req.Mask {
		t.Fatalf("mask = %#x, want %#x", mask, req.Mask)
	}
	// Y is -5; the wire carries its two's complement as uint32.
	y := int32(-5)
	want := []uint32{uint32(y), 600}
	if len(values) != 2 || values[0] != want[0] || values[1] != want[1] {
		t.Fatalf("values = %v, want %v", values, want)
	}
}

func TestConfigureValues_ZeroMaskProducesNothing(t *testing.T) {
	mask, values := configureValues(wm.ConfigureRequestEvent{X: 1, Y: 2})
	if mask != 0 {
		t.Fatalf("mask = %#x, want 0", mask)
	}
	if len(values) != 0 {
		t.Fatalf("value count = %d, want 0", len(values))
	}
}
