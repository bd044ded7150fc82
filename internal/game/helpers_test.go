package game

import (
	"image/color"
	"math"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// drawCall records one Renderer call
type drawCall struct {
	kind   string // "rect" or "circle"
	x, y   float64
	w, h   float64
	radius float64
	color  color.RGBA
}

// recordingRenderer captures draw calls in order
type recordingRenderer struct {
	calls []drawCall
}

func (r *recordingRenderer) FillRect(x, y, w, h float64, c color.RGBA) {
	r.calls = append(r.calls, drawCall{kind: "rect", x: x, y: y, w: w, h: h, color: c})
}

func (r *recordingRenderer) FillCircle(center Vec2, radius float64, c color.RGBA) {
	r.calls = append(r.calls, drawCall{kind: "circle", x: center.X, y: center.Y, radius: radius, color: c})
}

// scriptedInput reports a fixed set of held keys
type scriptedInput map[Key]bool

func (s scriptedInput) KeyPressed(k Key) bool {
	return s[k]
}
