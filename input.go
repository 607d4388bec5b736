package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// AxisSource reports the current value of a named input axis. Unbound labels
// read as zero.
type AxisSource interface {
	Axis(label string) float32
}

// Axes is a fixed set of axis values. The zero value reads as all zeros.
type Axes map[string]float32

// Axis implements AxisSource.
func (a Axes) Axis(label string) float32 { return a[label] }

// Set stores v under label and returns the map for chaining.
func (a Axes) Set(label string, v float32) Axes {
	a[label] = v
	return a
}

// layeredAxes reads from over first and falls back to base.
type layeredAxes struct {
	over Axes
	base AxisSource
}

func (l layeredAxes) Axis(label string) float32 {
	if v, ok := l.over[label]; ok {
		return v
	}
	if l.base == nil {
		return 0
	}
	return l.base.Axis(label)
}

// --- InputMap ---

// CursorAxis selects which cursor coordinate drives an axis.
type CursorAxis uint8

const (
	CursorX CursorAxis = iota // horizontal cursor motion
	CursorY                   // vertical cursor motion
)

type keyBinding struct {
	label string
	key   ebiten.Key
	value float32
}

type cursorBinding struct {
	label string
	axis  CursorAxis
	scale float32
}

// InputMap binds keyboard keys and cursor motion to axis labels. Several
// bindings may share a label; their contributions are summed each Poll.
//
//	in := grove.NewInputMap().
//		BindCursor("x", grove.CursorX, 0.01).
//		BindKey("x", ebiten.KeyA, 1).
//		BindKey("x", ebiten.KeyD, -1)
type InputMap struct {
	keys    []keyBinding
	cursors []cursorBinding
	values  Axes

	lastX, lastY int
	primed       bool
}

// NewInputMap creates an empty input map.
func NewInputMap() *InputMap {
	return &InputMap{values: Axes{}}
}

// BindKey adds value to label while key is held.
func (m *InputMap) BindKey(label string, key ebiten.Key, value float32) *InputMap {
	m.keys = append(m.keys, keyBinding{label: label, key: key, value: value})
	return m
}

// BindCursor adds the per-frame cursor delta along axis, multiplied by scale,
// to label.
func (m *InputMap) BindCursor(label string, axis CursorAxis, scale float32) *InputMap {
	m.cursors = append(m.cursors, cursorBinding{label: label, axis: axis, scale: scale})
	return m
}

// Axis implements AxisSource with the values from the last Poll.
func (m *InputMap) Axis(label string) float32 { return m.values[label] }

// Poll samples ebiten's keyboard and cursor state. Call once per tick before
// the scene update.
func (m *InputMap) Poll() {
	x, y := ebiten.CursorPosition()
	m.poll(ebiten.IsKeyPressed, x, y)
}

func (m *InputMap) poll(pressed func(ebiten.Key) bool, cx, cy int) {
	clear(m.values)
	for _, b := range m.keys {
		if pressed(b.key) {
			m.values[b.label] += b.value
		}
	}
	dx, dy := 0, 0
	if m.primed {
		dx, dy = cx-m.lastX, cy-m.lastY
	}
	m.lastX, m.lastY, m.primed = cx, cy, true
	for _, b := range m.cursors {
		d := dx
		if b.axis == CursorY {
			d = dy
		}
		m.values[b.label] += float32(d) * b.scale
	}
}
