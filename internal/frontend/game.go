// Package frontend hosts the engine in an ebiten window. It is the only
// package that imports ebiten.
package frontend

import (
	"log"
	"time"

	"barrage/internal/game"
	"barrage/internal/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options configures the windowed client
type Options struct {
	PauseOnDefeat bool // Stop stepping after defeat and show Game Over
	ShowHUD       bool // F3 toggles at runtime
}

// Game implements ebiten.Game. ebiten calls Update and Draw on one
// goroutine, which owns the engine.
type Game struct {
	engine  *game.Engine
	input   game.InputSource
	opts    Options
	overlay *overlay
}

// New wraps engine for ebiten.RunGame and starts the run
func New(engine *game.Engine, opts Options) *Game {
	engine.Start()
	return &Game{
		engine:  engine,
		input:   Keyboard{},
		opts:    opts,
		overlay: newOverlay(),
	}
}

// Update advances one frame
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.opts.ShowHUD = !g.opts.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.Reset()
		telemetry.RecordReset()
		log.Println("🔄 Run restarted")
	}

	if g.paused() {
		return nil
	}

	start := time.Now()
	g.engine.Step(game.PollInput(g.input))
	telemetry.RecordStep(time.Since(start), len(g.engine.Projectiles()), g.engine.StepCulled())
	return nil
}

func (g *Game) paused() bool {
	return g.opts.PauseOnDefeat && g.engine.State() == game.StateDefeated
}

// Draw renders the current frame
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	g.engine.Draw(NewScreen(screen))

	if g.opts.ShowHUD {
		g.overlay.drawHUD(screen, g.engine, ebiten.ActualTPS())
	}
	if g.paused() {
		g.overlay.drawGameOver(screen, g.engine.Defeat())
	}
	telemetry.RecordRender(time.Since(start))
}

// Layout keeps the logical playfield size regardless of window size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.engine.Config()
	return int(cfg.Width), int(cfg.Height)
}
