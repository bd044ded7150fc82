// Package render provides the offscreen gg renderer used for PNG frames.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"barrage/internal/game"

	"github.com/fogleman/gg"
)

// HUD layout
const (
	hudFontSize = 14
	hudMargin   = 8
)

var hudColor = color.RGBA{255, 255, 255, 200}

// Canvas is an offscreen renderer backed by a gg context
type Canvas struct {
	dc *gg.Context
}

// NewCanvas creates a width x height canvas
func NewCanvas(width, height int) *Canvas {
	dc := gg.NewContext(width, height)
	dc.SetFontFace(NewFace(hudFontSize))
	return &Canvas{dc: dc}
}

// FillRect fills an axis-aligned rectangle
func (c *Canvas) FillRect(x, y, w, h float64, col color.RGBA) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

// FillCircle fills a disc
func (c *Canvas) FillCircle(center game.Vec2, radius float64, col color.RGBA) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.dc.Fill()
}

// DrawHUD writes frame, projectile count and state in the top-left corner
func (c *Canvas) DrawHUD(snap *game.Snapshot) {
	lines := []string{
		fmt.Sprintf("frame %d", snap.Frame),
		fmt.Sprintf("projectiles %d", snap.ProjectileCount),
		fmt.Sprintf("volleys %d", snap.Volleys),
	}
	if snap.State != game.StateRunning {
		lines = append(lines, snap.State.String())
	}

	c.dc.SetColor(hudColor)
	y := float64(hudMargin + hudFontSize)
	for _, line := range lines {
		c.dc.DrawString(line, hudMargin, y)
		y += hudFontSize + 4
	}
}

// Image returns the rendered image
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas as PNG
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SnapshotPNG renders snap to w as a PNG, optionally with the HUD
func SnapshotPNG(w io.Writer, snap *game.Snapshot, hud bool) error {
	c := NewCanvas(int(snap.Width), int(snap.Height))
	game.DrawSnapshot(c, snap)
	if hud {
		c.DrawHUD(snap)
	}
	return c.EncodePNG(w)
}
