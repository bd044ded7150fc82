package game

import (
	"math"
	"testing"
)

func TestFireRing(t *testing.T) {
	center := Vec2{X: 320, Y: 240}
	s := NewSpawner(center, 2, nil)

	for _, count := range []int{1, 3, 8, 36, 100} {
		offset := 0.7
		ring := s.FireRing(offset, count, "#ff0000")

		if len(ring) != count {
			t.Fatalf("count %d: got %d projectiles", count, len(ring))
		}
		if !almostEqual(ring[0].Heading, offset) {
			t.Errorf("count %d: first heading %v, want %v", count, ring[0].Heading, offset)
		}

		step := 2 * math.Pi / float64(count)
		total := 0.0
		for i, p := range ring {
			if p.Position != center {
				t.Errorf("count %d: projectile %d spawned at %v", count, i, p.Position)
			}
			if p.TargetSpeed != 2 || p.CurrentSpeed != 4 {
				t.Errorf("count %d: projectile %d speeds %v/%v", count, i, p.TargetSpeed, p.CurrentSpeed)
			}
			if p.Color != "#ff0000" {
				t.Errorf("count %d: projectile %d color %s", count, i, p.Color)
			}
			if i > 0 {
				inc := p.Heading - ring[i-1].Heading
				if math.Abs(inc-step) > 1e-9 {
					t.Errorf("count %d: increment %v, want %v", count, inc, step)
				}
				total += inc
			}
		}
		// The final increment closes the circle back to the first heading
		total += step
		if math.Abs(total-2*math.Pi) > 1e-9 {
			t.Errorf("count %d: increments sum to %v, want 2π", count, total)
		}
	}
}

func TestFireRingNonPositive(t *testing.T) {
	s := NewSpawner(Vec2{}, 2, nil)
	for _, count := range []int{0, -1} {
		if ring := s.FireRing(0, count, "#ff0000"); len(ring) != 0 {
			t.Errorf("count %d: expected no projectiles, got %d", count, len(ring))
		}
	}
}

func TestFireRingIndependentPositions(t *testing.T) {
	s := NewSpawner(Vec2{X: 320, Y: 240}, 2, nil)
	ring := s.FireRing(0, 4, "#ff0000")

	ring[0].Advance()
	if ring[1].Position != (Vec2{X: 320, Y: 240}) {
		t.Error("Projectiles in one volley share position state")
	}
}

func TestSpawnerPaletteCycle(t *testing.T) {
	palette := []string{"#ff0000", "#0000ff", "#008000"}
	s := NewSpawner(Vec2{}, 2, palette)

	for k := 0; k < 10; k++ {
		if got := s.PeekColor(); got != palette[k%3] {
			t.Errorf("volley %d: peek %s, want %s", k, got, palette[k%3])
		}
		if got := s.NextColor(); got != palette[k%3] {
			t.Errorf("volley %d: color %s, want %s", k, got, palette[k%3])
		}
	}

	s.Reset()
	if got := s.NextColor(); got != palette[0] {
		t.Errorf("After reset: color %s, want %s", got, palette[0])
	}
}

func TestSpawnerPaletteCopied(t *testing.T) {
	palette := []string{"#ff0000", "#0000ff"}
	s := NewSpawner(Vec2{}, 2, palette)
	palette[0] = "#ffffff"

	if got := s.NextColor(); got != "#ff0000" {
		t.Errorf("Spawner palette aliased caller slice: got %s", got)
	}

	p := s.Palette()
	p[1] = "#ffffff"
	if got := s.NextColor(); got != "#0000ff" {
		t.Errorf("Palette() exposed internal slice: got %s", got)
	}
}

func TestSpawnerEmptyPalette(t *testing.T) {
	s := NewSpawner(Vec2{}, 2, []string{})
	if got := s.NextColor(); got != DefaultPalette[0] {
		t.Errorf("Expected default palette, got %s", got)
	}
}
