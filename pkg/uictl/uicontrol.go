// Package uictl defines the small control surfaces the TUI reads and drives
// without knowing what sits behind them.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Knob is a simple on/off toggle control.
type Knob interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// DialFunc adapts a plain function to a Dial.
type DialFunc[N Number] func() N

// Read calls f.
func (f DialFunc[N]) Read() N {
	return f()
}
