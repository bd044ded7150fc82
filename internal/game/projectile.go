package game

import (
	"image/color"
	"math"
)

// Projectile is a single moving hazard.
// Heading never changes after spawn; speed ramps down from twice the target.
type Projectile struct {
	Position     Vec2
	Heading      float64 // Radians, from the positive X axis
	TargetSpeed  float64 // Steady-state units per frame
	CurrentSpeed float64 // Starts at 2x TargetSpeed
	Color        string  // "#rrggbb"

	rgba color.RGBA
}

// Projectile system constants
const (
	// SpeedRampDivisor sets the low-pass step: 1/10 of the gap per frame
	SpeedRampDivisor = 10.0
	// LaunchSpeedFactor is the initial speed multiple of TargetSpeed
	LaunchSpeedFactor = 2.0
)

// NewProjectile creates a projectile at origin traveling along heading.
// The position is copied so projectiles of one volley never share state.
func NewProjectile(origin Vec2, heading, targetSpeed float64, c string) *Projectile {
	rgba, err := ParseHexColor(c)
	if err != nil {
		rgba = projectileInnerRGBA
	}

	return &Projectile{
		Position:     origin,
		Heading:      heading,
		TargetSpeed:  targetSpeed,
		CurrentSpeed: targetSpeed * LaunchSpeedFactor,
		Color:        c,
		rgba:         rgba,
	}
}

// Advance moves the projectile by its current speed, then relaxes the
// speed toward TargetSpeed
func (p *Projectile) Advance() {
	p.Position.X += math.Cos(p.Heading) * p.CurrentSpeed
	p.Position.Y += math.Sin(p.Heading) * p.CurrentSpeed

	p.CurrentSpeed += (p.TargetSpeed - p.CurrentSpeed) / SpeedRampDivisor
}

// Hits reports whether target lies within radius of the projectile (inclusive)
func (p *Projectile) Hits(target Vec2, radius float64) bool {
	return Distance(p.Position, target) <= radius
}

// OutOfBounds reports whether the projectile is more than margin outside
// the width x height playfield
func (p *Projectile) OutOfBounds(width, height, margin float64) bool {
	return p.Position.X < -margin || p.Position.X > width+margin ||
		p.Position.Y < -margin || p.Position.Y > height+margin
}

// Render draws the projectile as a colored ring
func (p *Projectile) Render(r Renderer) {
	drawProjectile(r, p.Position, p.rgba)
}

// ProjectileSnapshot is an immutable copy of projectile state for rendering
type ProjectileSnapshot struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`
	Color   string  `json:"color"`

	rgba color.RGBA
}

// ToSnapshot creates an immutable snapshot for rendering
func (p *Projectile) ToSnapshot() ProjectileSnapshot {
	return ProjectileSnapshot{
		X:       p.Position.X,
		Y:       p.Position.Y,
		Heading: p.Heading,
		Speed:   p.CurrentSpeed,
		Color:   p.Color,
		rgba:    p.rgba,
	}
}
