// Package layout partitions the window into the regions the TUI draws.
package layout

import "math"

// Rect is an axis-aligned rectangle in screen units.
type Rect struct {
	X, Y, W, H int
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// removeFromLeft splits w units off the left of r.
func (r *Rect) removeFromLeft(w int) Rect {
	w = clamp(w, 0, r.W)
	left := Rect{X: r.X, Y: r.Y, W: w, H: r.H}
	r.X += w
	r.W -= w

	return left
}

// removeFromTop splits h units off the top of r.
func (r *Rect) removeFromTop(h int) Rect {
	h = clamp(h, 0, r.H)
	top := Rect{X: r.X, Y: r.Y, W: r.W, H: h}
	r.Y += h
	r.H -= h

	return top
}

// reduce shrinks r by dx on each side horizontally and dy vertically.
func (r Rect) reduce(dx, dy int) Rect {
	dx = clamp(dx, 0, r.W/2)
	dy = clamp(dy, 0, r.H/2)

	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Metrics are the fixed spacings of the diagnostics column.
type Metrics struct {
	Margin      int
	StripHeight int
	Gap         int
}

var (
	// PixelMetrics match a pixel-based window.
	PixelMetrics = Metrics{Margin: 10, StripHeight: 20, Gap: 20}
	// CellMetrics suit a terminal grid.
	CellMetrics = Metrics{Margin: 1, StripHeight: 1, Gap: 1}
)

const (
	selectorShare    = 0.6
	diagnosticsShare = 0.4
)

// Layout holds every region of the window.
type Layout struct {
	Window      Rect
	Selector    Rect
	Diagnostics Rect // background of the right-hand column
	CPULabel    Rect
	CPUText     Rect
	Log         Rect
}

// Partition splits a width x height window. The selector gets the left 60%;
// the rest, inset by the margin, holds a strip split between the CPU label
// and value, a gap, then the log.
func Partition(width, height int, m Metrics) Layout {
	width = max(width, 0)
	height = max(height, 0)

	window := Rect{W: width, H: height}
	rest := window

	l := Layout{Window: window}
	l.Selector = rest.removeFromLeft(proportion(width, selectorShare))

	bgWidth := clamp(proportion(width, diagnosticsShare), 0, width)
	l.Diagnostics = Rect{X: width - bgWidth, Y: 0, W: bgWidth, H: height}

	inner := rest.reduce(m.Margin, m.Margin)
	strip := inner.removeFromTop(m.StripHeight)
	l.CPULabel = strip.removeFromLeft(strip.W / 2)
	l.CPUText = strip
	inner.removeFromTop(m.Gap)
	l.Log = inner

	return l
}

func proportion(total int, share float64) int {
	return int(math.Round(float64(total) * share))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
