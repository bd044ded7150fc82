package game

import "math"

// Spawner generates radial volleys and cycles the volley palette
type Spawner struct {
	origin    Vec2
	baseSpeed float64
	palette   []string
	index     int
}

// NewSpawner creates a spawner firing from origin. An empty palette falls
// back to DefaultPalette.
func NewSpawner(origin Vec2, baseSpeed float64, palette []string) *Spawner {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	p := make([]string, len(palette))
	copy(p, palette)

	return &Spawner{
		origin:    origin,
		baseSpeed: baseSpeed,
		palette:   p,
	}
}

// FireRing builds count projectiles at equal angular spacing starting at
// offset (radians). All share the spawner origin, base speed and color.
// Non-positive counts produce nothing.
func (s *Spawner) FireRing(offset float64, count int, color string) []*Projectile {
	if count <= 0 {
		return nil
	}

	span := 360.0 / float64(count)
	angle := offset

	ring := make([]*Projectile, 0, count)
	for i := 0; i < count; i++ {
		ring = append(ring, NewProjectile(s.origin, angle, s.baseSpeed, color))
		angle += span * math.Pi / 180
	}
	return ring
}

// NextColor returns the current palette color and advances the index cyclically
func (s *Spawner) NextColor() string {
	c := s.palette[s.index]
	s.index = (s.index + 1) % len(s.palette)
	return c
}

// PeekColor returns the color the next volley will use
func (s *Spawner) PeekColor() string {
	return s.palette[s.index]
}

// Palette returns a copy of the palette
func (s *Spawner) Palette() []string {
	p := make([]string, len(s.palette))
	copy(p, s.palette)
	return p
}

// Reset rewinds the palette to its first color
func (s *Spawner) Reset() {
	s.index = 0
}
