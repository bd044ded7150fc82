package game

import (
	"fmt"
	"image/color"
)

// Renderer is the immediate-mode drawing backend the engine draws through.
// Calls are assumed to always succeed.
type Renderer interface {
	FillRect(x, y, w, h float64, c color.RGBA)
	FillCircle(center Vec2, radius float64, c color.RGBA)
}

// Visual constants
const (
	ProjectileOuterRadius = 8.0
	ProjectileInnerRadius = 6.0
	PlayerRadius          = 10.0

	ProjectileInnerColor = "#ffffff"
	PlayerColor          = "#00aaff"
	BackgroundColor      = "#000000"
)

var (
	projectileInnerRGBA = MustParseHexColor(ProjectileInnerColor)
	playerRGBA          = MustParseHexColor(PlayerColor)
	backgroundRGBA      = MustParseHexColor(BackgroundColor)
)

// ParseHexColor parses a "#rrggbb" color string
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants; panics on bad input
func MustParseHexColor(hex string) color.RGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// drawProjectile draws the ring: outer disc in the volley color, white core on top
func drawProjectile(r Renderer, pos Vec2, c color.RGBA) {
	r.FillCircle(pos, ProjectileOuterRadius, c)
	r.FillCircle(pos, ProjectileInnerRadius, projectileInnerRGBA)
}

func drawPlayer(r Renderer, pos Vec2) {
	r.FillCircle(pos, PlayerRadius, playerRGBA)
}

func drawBackground(r Renderer, width, height float64) {
	r.FillRect(0, 0, width, height, backgroundRGBA)
}
