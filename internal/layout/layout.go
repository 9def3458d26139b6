package layout

import "fmt"

// Rect is a window position and size in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Mode selects the tiling arithmetic for a desktop. The numeric values are
// stable and appear verbatim in the status output.
type Mode int

const (
	Tile Mode = iota
	Monocle
	BStack
	Grid
)

var modeNames = map[Mode]string{
	Tile:    "tile",
	Monocle: "monocle",
	BStack:  "bstack",
	Grid:    "grid",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown layout mode: %q", s)
}

// Options tunes the master/stack split. MasterRatio is the configured
// fraction of the split axis given to the master area, MasterDelta a
// per-desktop pixel adjustment on top of it, and Growth the accumulated
// stack fine-tune absorbed by the first stack client.
type Options struct {
	MasterRatio float64
	MasterDelta int
	Growth      int
}

// Frames computes one frame per tiled client, in client order, partitioning
// area exactly: in Tile, BStack and Grid the frames cover the area with no
// gaps and no overlap. Frames are outer geometry; the caller subtracts
// borders when issuing window configurations.
func Frames(area Rect, mode Mode, n int, opt Options) ([]Rect, error) {
	if n <= 0 {
		return nil, nil
	}
	if area.Width <= 0 || area.Height <= 0 {
		return nil, fmt.Errorf("degenerate work area: %dx%d", area.Width, area.Height)
	}
	if n == 1 {
		return []Rect{area}, nil
	}

	switch mode {
	case Monocle:
		frames := make([]Rect, n)
		for i := range frames {
			frames[i] = area
		}
		return frames, nil
	case Tile:
		return split(area, n, opt, false), nil
	case BStack:
		return split(area, n, opt, true), nil
	case Grid:
		return grid(area, n), nil
	default:
		return nil, fmt.Errorf("unsupported layout mode: %d", int(mode))
	}
}

// split lays out one master area plus a stack of n-1 clients. With the
// stack axis of length H and growth g, every stack client gets (H-g)/n
// and the first additionally absorbs (H-g)%n + g, so the heights always
// sum back to H.
func split(area Rect, n int, opt Options, bottom bool) []Rect {
	axis := area.Width
	stackAxis := area.Height
	if bottom {
		axis = area.Height
		stackAxis = area.Width
	}

	ma := int(float64(axis)*opt.MasterRatio) + opt.MasterDelta

	sn := n - 1
	z := (stackAxis - opt.Growth) / sn
	d := (stackAxis-opt.Growth)%sn + opt.Growth

	frames := make([]Rect, n)
	if bottom {
		frames[0] = Rect{area.X, area.Y, area.Width, ma}
		x := area.X
		for i := 1; i < n; i++ {
			w := z
			if i == 1 {
				w += d
			}
			frames[i] = Rect{x, area.Y + ma, w, area.Height - ma}
			x += w
		}
	} else {
		frames[0] = Rect{area.X, area.Y, ma, area.Height}
		y := area.Y
		for i := 1; i < n; i++ {
			h := z
			if i == 1 {
				h += d
			}
			frames[i] = Rect{area.X + ma, y, area.Width - ma, h}
			y += h
		}
	}
	return frames
}

// grid fills columns top to bottom, left to right. Columns is the smallest
// c with c*c >= n, except five clients use two columns; the trailing
// columns absorb the extra cells once the leading ones hold their base
// quota. The last column and the last cell of each column absorb the
// division remainders.
func grid(area Rect, n int) []Rect {
	cols := 1
	for cols*cols < n {
		cols++
	}
	if n == 5 {
		cols = 2
	}
	rows := (n + cols - 1) / cols
	short := cols*rows - n

	cw := area.Width / cols
	frames := make([]Rect, 0, n)
	x := area.X
	for col := 0; col < cols; col++ {
		w := cw
		if col == cols-1 {
			w = area.X + area.Width - x
		}
		cells := rows
		if col < short {
			cells = rows - 1
		}
		ch := area.Height / cells
		y := area.Y
		for row := 0; row < cells; row++ {
			h := ch
			if row == cells-1 {
				h = area.Y + area.Height - y
			}
			frames = append(frames, Rect{x, y, w, h})
			y += h
		}
		x += w
	}
	return frames
}
