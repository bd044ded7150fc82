package game

import (
	"math"
	"testing"
)

func newTestEngine(mutate func(*EngineConfig)) *Engine {
	cfg := DefaultEngineConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e := NewEngine(cfg)
	e.Start()
	return e
}

// TestNewEngine verifies engine creation with correct defaults
func TestNewEngine(t *testing.T) {
	tests := []struct {
		name string
		cfg  EngineConfig
	}{
		{"defaults", DefaultEngineConfig()},
		{"zero config", EngineConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.cfg)
			if e.State() != StateUninitialized {
				t.Errorf("Expected uninitialized, got %s", e.State())
			}
			cfg := e.Config()
			if cfg.Width != 640 || cfg.Height != 480 || cfg.SpawnInterval != 40 || cfg.VolleySize != 36 {
				t.Errorf("Unexpected effective config %+v", cfg)
			}
			if e.Player() != nil {
				t.Error("Player exists before Start")
			}
		})
	}
}

// TestEngineStartStop verifies the lifecycle transitions
func TestEngineStartStop(t *testing.T) {
	e := NewEngine(DefaultEngineConfig())

	// Step before Start does nothing
	e.Step(InputState{})
	if e.FrameCount() != 0 {
		t.Errorf("Step advanced an uninitialized engine")
	}

	e.Start()
	if e.State() != StateRunning {
		t.Fatalf("Expected running, got %s", e.State())
	}
	if e.Player().Position != (Vec2{X: 320, Y: 400}) {
		t.Errorf("Unexpected start position %v", e.Player().Position)
	}

	e.Step(InputState{})
	e.Start() // no-op while running
	if e.FrameCount() != 1 {
		t.Errorf("Start restarted an active run")
	}

	e.Stop()
	if e.State() != StateStopped {
		t.Fatalf("Expected stopped, got %s", e.State())
	}
	e.Step(InputState{})
	if e.FrameCount() != 1 {
		t.Errorf("Step advanced a stopped engine")
	}

	// Should not panic on double stop
	e.Stop()

	e.Start()
	if e.State() != StateRunning || e.FrameCount() != 0 {
		t.Errorf("Start after Stop did not begin a fresh run")
	}
}

// TestVolleyCadence verifies one volley per 40-frame boundary
func TestVolleyCadence(t *testing.T) {
	e := newTestEngine(func(c *EngineConfig) { c.ProjectilePolicy = ProjectilesUnbounded })

	var frames []uint64
	e.SetCallbacks(func(v VolleyEvent) { frames = append(frames, v.Frame) }, nil)

	for i := 0; i < 120; i++ {
		e.Step(InputState{})
	}

	want := []uint64{0, 40, 80}
	if len(frames) != len(want) {
		t.Fatalf("Expected volleys at %v, got %v", want, frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("Volley %d at frame %d, want %d", i, frames[i], want[i])
		}
	}
	if e.VolleyCount() != 3 {
		t.Errorf("Expected 3 volleys, got %d", e.VolleyCount())
	}
	if e.FrameCount() != 120 {
		t.Errorf("Expected frame count 120, got %d", e.FrameCount())
	}
}

// TestVolleyPalette verifies the k-th volley uses palette[k mod len]
func TestVolleyPalette(t *testing.T) {
	palette := []string{"#ff0000", "#0000ff", "#008000"}
	e := newTestEngine(func(c *EngineConfig) {
		c.Palette = palette
		c.SpawnInterval = 1
		c.PlayerBounds = BoundsFree
		c.PlayerStart = Vec2{X: -1000, Y: -1000}
	})

	var colors []string
	e.SetCallbacks(func(v VolleyEvent) {
		if v.Color != palette[v.Index%3] {
			t.Errorf("Volley %d color %s, want %s", v.Index, v.Color, palette[v.Index%3])
		}
		colors = append(colors, v.Color)
	}, nil)

	for i := 0; i < 7; i++ {
		e.Step(InputState{})
	}
	if len(colors) != 7 {
		t.Fatalf("Expected 7 volleys, got %d", len(colors))
	}

	// Every projectile of a volley shares the volley color
	for i, p := range e.Projectiles() {
		if want := palette[(i/36)%3]; p.Color != want {
			t.Fatalf("Projectile %d color %s, want %s", i, p.Color, want)
		}
	}
}

// TestVolleyAim verifies the ring starts at the player's angle around the center
func TestVolleyAim(t *testing.T) {
	e := newTestEngine(func(c *EngineConfig) { c.PlayerStart = Vec2{X: 420, Y: 240} })

	var aim float64
	e.SetCallbacks(func(v VolleyEvent) { aim = v.AimAngle }, nil)
	e.Step(InputState{})

	if !almostEqual(aim, 0) {
		t.Errorf("Expected aim 0 toward a player on the right, got %v", aim)
	}
	first := e.Projectiles()[0]
	if !almostEqual(first.Heading, 0) {
		t.Errorf("Expected first heading 0, got %v", first.Heading)
	}
	if first.Position != (Vec2{X: 320, Y: 240}) {
		t.Errorf("Volley did not originate at the center: %v", first.Position)
	}
}

// TestDefeat verifies the inclusive lethal radius and the once-per-run signal
func TestDefeat(t *testing.T) {
	tests := []struct {
		name       string
		projectile Vec2
		want       State
	}{
		{"within radius", Vec2{X: 9}, StateDefeated},
		{"on radius", Vec2{X: 10}, StateDefeated},
		{"outside radius", Vec2{X: 11}, StateRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(func(c *EngineConfig) { c.VolleySize = 1 })
			e.player.Position = Vec2{}
			// Zero speed keeps the projectile still through Advance
			e.projectiles = append(e.projectiles, NewProjectile(tt.projectile, 0, 0, "#ff0000"))

			defeats := 0
			e.SetCallbacks(nil, func(DefeatEvent) { defeats++ })
			e.Step(InputState{})

			if e.State() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, e.State())
			}
			if tt.want == StateDefeated {
				if defeats != 1 {
					t.Errorf("Expected 1 defeat signal, got %d", defeats)
				}
				d := e.Defeat()
				if d == nil || d.Frame != 0 || !almostEqual(d.Distance, tt.projectile.X) {
					t.Errorf("Unexpected defeat details %+v", d)
				}
			} else if defeats != 0 || e.Defeat() != nil {
				t.Errorf("Unexpected defeat signal")
			}
		})
	}
}

// TestDefeatOnce verifies later hits in the same run do not signal again
func TestDefeatOnce(t *testing.T) {
	e := newTestEngine(nil)
	e.player.Position = Vec2{X: 100, Y: 100}
	e.projectiles = append(e.projectiles,
		NewProjectile(Vec2{X: 95, Y: 100}, 0, 0, "#ff0000"),
		NewProjectile(Vec2{X: 105, Y: 100}, 0, 0, "#0000ff"),
	)

	defeats := 0
	e.SetCallbacks(nil, func(d DefeatEvent) {
		defeats++
		if d.Color != "#ff0000" {
			t.Errorf("Expected the first projectile in order to defeat, got %s", d.Color)
		}
	})

	for i := 0; i < 5; i++ {
		e.Step(InputState{})
	}
	if defeats != 1 {
		t.Errorf("Expected exactly 1 defeat signal, got %d", defeats)
	}

	// The engine keeps stepping after defeat
	if e.FrameCount() != 5 {
		t.Errorf("Expected 5 frames after defeat, got %d", e.FrameCount())
	}

	e.Reset()
	if e.State() != StateRunning || e.Defeat() != nil {
		t.Errorf("Reset did not clear the defeat")
	}
}

// TestEndToEndFirstVolley runs 40 frames with no keys held
func TestEndToEndFirstVolley(t *testing.T) {
	e := newTestEngine(nil)
	for i := 0; i < 40; i++ {
		e.Frame(scriptedInput{}, &recordingRenderer{})
	}

	if e.VolleyCount() != 1 {
		t.Fatalf("Expected 1 volley, got %d", e.VolleyCount())
	}
	if len(e.Projectiles()) != 36 {
		t.Fatalf("Expected 36 projectiles, got %d", len(e.Projectiles()))
	}
	if e.State() != StateRunning {
		t.Errorf("Expected running, got %s", e.State())
	}

	// Sum of 39 ramped speeds: 4, 3.8, 3.62, ...
	want, speed := 0.0, 4.0
	for i := 0; i < 39; i++ {
		want += speed
		speed += (2 - speed) / 10
	}

	center := e.Config().Center()
	for i, p := range e.Projectiles() {
		if got := Distance(p.Position, center); math.Abs(got-want) > 1e-6 {
			t.Errorf("Projectile %d at distance %v, want %v", i, got, want)
		}
	}
}

// TestDrawOrder verifies background, then projectiles, then the player
func TestDrawOrder(t *testing.T) {
	e := newTestEngine(nil)
	e.Step(InputState{})

	r := &recordingRenderer{}
	e.Draw(r)

	want := 1 + 2*36 + 1
	if len(r.calls) != want {
		t.Fatalf("Expected %d draw calls, got %d", want, len(r.calls))
	}

	bg := r.calls[0]
	if bg.kind != "rect" || bg.x != 0 || bg.y != 0 || bg.w != 640 || bg.h != 480 || bg.color != MustParseHexColor(BackgroundColor) {
		t.Errorf("Unexpected background call %+v", bg)
	}
	for i := 1; i < want-1; i += 2 {
		if r.calls[i].radius != ProjectileOuterRadius || r.calls[i+1].radius != ProjectileInnerRadius {
			t.Fatalf("Projectile draw %d out of order", i)
		}
	}
	last := r.calls[want-1]
	if last.radius != PlayerRadius || last.color != MustParseHexColor(PlayerColor) {
		t.Errorf("Player was not drawn last: %+v", last)
	}
}

// TestProjectilePolicy verifies culling and its opt-outs
func TestProjectilePolicy(t *testing.T) {
	tests := []struct {
		name       string
		policy     ProjectilePolicy
		bounds     BoundsMode
		expectCull bool
	}{
		{"cull", ProjectilesCull, BoundsClamp, true},
		{"unbounded", ProjectilesUnbounded, BoundsClamp, false},
		{"cull disabled by free bounds", ProjectilesCull, BoundsFree, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(func(c *EngineConfig) {
				c.ProjectilePolicy = tt.policy
				c.PlayerBounds = tt.bounds
			})
			for i := 0; i < 600; i++ {
				e.Step(InputState{})
			}

			total := e.VolleyCount() * 36
			if tt.expectCull {
				if e.CulledCount() == 0 {
					t.Fatal("Expected projectiles to be culled")
				}
				if len(e.Projectiles())+int(e.CulledCount()) != total {
					t.Errorf("Live %d + culled %d != spawned %d", len(e.Projectiles()), e.CulledCount(), total)
				}
				for _, p := range e.Projectiles() {
					if p.OutOfBounds(640, 480, DefaultCullMargin) {
						t.Fatalf("Off-field projectile survived at %v", p.Position)
					}
				}
			} else {
				if e.CulledCount() != 0 || len(e.Projectiles()) != total {
					t.Errorf("Expected all %d projectiles kept, got %d (culled %d)", total, len(e.Projectiles()), e.CulledCount())
				}
			}
		})
	}
}

// TestPlayerBounds verifies clamp, wrap and free modes
func TestPlayerBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds BoundsMode
		frames int
		want   Vec2
	}{
		{"clamp", BoundsClamp, 100, Vec2{X: 320, Y: 480}},
		{"wrap", BoundsWrap, 25, Vec2{X: 320, Y: 20}},
		{"free", BoundsFree, 25, Vec2{X: 320, Y: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(func(c *EngineConfig) {
				c.PlayerBounds = tt.bounds
				c.VolleySize = 1
				c.SpawnInterval = 10000
			})
			for i := 0; i < tt.frames; i++ {
				e.Step(InputState{Down: true})
			}
			got := e.Player().Position
			if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) {
				t.Errorf("Position = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestReset verifies a fresh run from any state
func TestReset(t *testing.T) {
	e := newTestEngine(nil)
	for i := 0; i < 90; i++ {
		e.Step(InputState{Left: true})
	}

	e.Reset()
	if e.FrameCount() != 0 || len(e.Projectiles()) != 0 || e.VolleyCount() != 0 {
		t.Errorf("Reset left state behind: frame %d, projectiles %d, volleys %d",
			e.FrameCount(), len(e.Projectiles()), e.VolleyCount())
	}
	if e.NextColor() != DefaultPalette[0] {
		t.Errorf("Reset did not rewind the palette")
	}
	if e.Player().Position != (Vec2{X: 320, Y: 400}) {
		t.Errorf("Reset did not restore the player position")
	}

	// Reset from uninitialized starts a run
	fresh := NewEngine(DefaultEngineConfig())
	fresh.Reset()
	if fresh.State() != StateRunning {
		t.Errorf("Expected running after Reset, got %s", fresh.State())
	}
}

func TestParseModes(t *testing.T) {
	if _, err := ParseProjectilePolicy("cull"); err != nil {
		t.Errorf("cull: %v", err)
	}
	if _, err := ParseProjectilePolicy("forever"); err == nil {
		t.Error("Expected error for unknown policy")
	}
	for _, s := range []string{"clamp", "wrap", "free"} {
		if _, err := ParseBoundsMode(s); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}
	if _, err := ParseBoundsMode("bounce"); err == nil {
		t.Error("Expected error for unknown bounds mode")
	}
}
