package x11

import (
	"sort"

	"github.com/BurntSushi/xgb/randr"

	"github.com/Cloudef/monsterwm-xcb/internal/layout"
)

// Monitors enumerates the active outputs left to right. It never returns an
// empty slice: when RandR is unavailable or reports nothing usable, the
// whole screen stands in as a single monitor.
func (c *Conn) Monitors() []layout.Rect {
	screen := c.xu.Screen()
	return normalizeMonitors(c.randrMonitors(),
		int(screen.WidthInPixels), int(screen.HeightInPixels))
}

// randrMonitors queries RandR for enabled CRTCs. Disabled and outputless
// CRTCs report zero size and are skipped.
func (c *Conn) randrMonitors() []layout.Rect {
	conn := c.xu.Conn()
	if err := randr.Init(conn); err != nil {
		c.log.Warn("randr unavailable, using whole screen", "error", err)
		return nil
	}
	resources, err := randr.GetScreenResources(conn, c.root).Reply()
	if err != nil {
		c.log.Warn("randr screen resources query failed", "error", err)
		return nil
	}
	var rects []layout.Rect
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		rects = append(rects, layout.Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return rects
}

// normalizeMonitors orders monitor rectangles left to right, top to bottom,
// and drops exact duplicates from mirrored outputs. An empty query result
// falls back to a single screen-sized monitor.
func normalizeMonitors(rects []layout.Rect, screenWidth, screenHeight int) []layout.Rect {
	if len(rects) == 0 {
		return []layout.Rect{{X: 0, Y: 0, Width: screenWidth, Height: screenHeight}}
	}
	out := make([]layout.Rect, len(rects))
	copy(out, rects)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	deduped := out[:1]
	for _, r := range out[1:] {
		if r == deduped[len(deduped)-1] {
			continue
		}
		deduped = append(deduped, r)
	}
	return deduped
}
