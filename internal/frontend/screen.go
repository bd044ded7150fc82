package frontend

import (
	"image/color"

	"barrage/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Screen adapts an ebiten image to game.Renderer
type Screen struct {
	img *ebiten.Image
}

// NewScreen wraps img
func NewScreen(img *ebiten.Image) *Screen {
	return &Screen{img: img}
}

// FillRect fills an axis-aligned rectangle
func (s *Screen) FillRect(x, y, w, h float64, col color.RGBA) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), col, false)
}

// FillCircle fills an anti-aliased disc
func (s *Screen) FillCircle(center game.Vec2, radius float64, col color.RGBA) {
	vector.DrawFilledCircle(s.img, float32(center.X), float32(center.Y), float32(radius), col, true)
}
