package frontend

import (
	"fmt"
	"image/color"

	"barrage/internal/game"
	"barrage/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

var (
	dimColor   = color.RGBA{0, 0, 0, 160}
	titleColor = color.RGBA{255, 80, 80, 255}
	bodyColor  = color.RGBA{255, 255, 255, 230}
)

type overlay struct {
	title font.Face
	body  font.Face
}

func newOverlay() *overlay {
	return &overlay{
		title: render.NewFace(36),
		body:  render.NewFace(14),
	}
}

// drawGameOver dims the playfield and shows the restart hint
func (o *overlay) drawGameOver(screen *ebiten.Image, d *game.DefeatEvent) {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), dimColor, false)

	y := h/2 - 20
	o.centered(screen, o.title, "GAME OVER", y, titleColor)
	y += 36
	if d != nil {
		o.centered(screen, o.body, fmt.Sprintf("survived %d frames", d.Frame), y, bodyColor)
		y += 22
	}
	o.centered(screen, o.body, "Enter or R to restart, Esc to quit", y, bodyColor)
}

// drawHUD prints frame and projectile counters in the top-left corner
func (o *overlay) drawHUD(screen *ebiten.Image, e *game.Engine, tps float64) {
	lines := []string{
		fmt.Sprintf("frame %d", e.FrameCount()),
		fmt.Sprintf("projectiles %d", len(e.Projectiles())),
		fmt.Sprintf("tps %.0f", tps),
	}
	y := 20
	for _, line := range lines {
		text.Draw(screen, line, o.body, 8, y, bodyColor)
		y += 18
	}
}

func (o *overlay) centered(screen *ebiten.Image, face font.Face, s string, y int, clr color.Color) {
	bounds := text.BoundString(face, s)
	x := (screen.Bounds().Dx() - bounds.Dx()) / 2
	text.Draw(screen, s, face, x, y, clr)
}
