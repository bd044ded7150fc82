package game

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// ErrRunnerStopped is returned for commands sent to a runner that is not running
var ErrRunnerStopped = errors.New("runner is not running")

// FrameStats describes one ticked frame, passed to the frame hook
type FrameStats struct {
	Frame       uint64
	State       State
	Projectiles int
	Culled      uint64 // Removed during this frame
	StepTime    time.Duration
}

// RunnerStats is a point-in-time summary for the stats endpoint
type RunnerStats struct {
	Running     bool                   `json:"running"`
	Paused      bool                   `json:"paused"`
	FPS         int                    `json:"fps"`
	TotalFrames uint64                 `json:"totalFrames"` // Across all runs
	Resets      uint64                 `json:"resets"`
	Frame       uint64                 `json:"frame"`
	State       State                  `json:"state"`
	Projectiles int                    `json:"projectiles"`
	Volleys     int                    `json:"volleys"`
	Culled      uint64                 `json:"culled"`
	EventLog    map[string]interface{} `json:"eventLog"`
}

type command uint8

const (
	cmdReset command = iota
)

// Runner drives an Engine headlessly from a ticker goroutine. The goroutine
// is the engine's only owner; other goroutines read snapshots and send
// commands.
type Runner struct {
	engine        *Engine
	input         InputSource
	fps           int
	pauseOnDefeat bool
	onFrame       func(FrameStats)

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
	commands chan command

	paused      atomic.Bool
	totalFrames atomic.Uint64
	resets      atomic.Uint64
}

// NewRunner creates a runner ticking engine at fps frames per second.
// input may be nil for a run with no keys held.
func NewRunner(engine *Engine, input InputSource, fps int, pauseOnDefeat bool) *Runner {
	if fps <= 0 {
		fps = 60
	}
	return &Runner{
		engine:        engine,
		input:         input,
		fps:           fps,
		pauseOnDefeat: pauseOnDefeat,
		commands:      make(chan command, 8),
	}
}

// SetFrameHook registers a callback run on the owner goroutine after each
// frame. Must be called before Start.
func (r *Runner) SetFrameHook(fn func(FrameStats)) {
	r.onFrame = fn
}

// Start begins the ticker goroutine. No-op if already running.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})
	r.done = make(chan struct{})
	r.paused.Store(false)

	r.engine.Start()
	r.engine.ProduceSnapshot()

	go r.loop(r.stopChan, r.done)

	log.Printf("🎮 Simulation started at %d FPS", r.fps)
}

// Stop halts the ticker goroutine and stops the engine. No-op if not running.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stopChan)
	<-r.done

	// The loop has exited; this goroutine owns the engine now
	r.engine.Stop()
	r.engine.ProduceSnapshot()

	log.Println("🛑 Simulation stopped")
}

// Reset queues a fresh run on the owner goroutine
func (r *Runner) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return ErrRunnerStopped
	}

	select {
	case r.commands <- cmdReset:
		return nil
	case <-r.done:
		return ErrRunnerStopped
	}
}

// Running reports whether the ticker goroutine is active
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Paused reports whether stepping is suspended after a defeat
func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// GetSnapshot returns a copy of the latest frame, nil before Start
func (r *Runner) GetSnapshot() *Snapshot {
	return r.engine.GetSnapshot()
}

// Stats returns runner counters together with the latest snapshot values
func (r *Runner) Stats() RunnerStats {
	stats := RunnerStats{
		Running:     r.Running(),
		Paused:      r.paused.Load(),
		FPS:         r.fps,
		TotalFrames: r.totalFrames.Load(),
		Resets:      r.resets.Load(),
		EventLog:    r.engine.GetEventLogStats(),
	}
	if snap := r.engine.GetSnapshot(); snap != nil {
		stats.Frame = snap.Frame
		stats.State = snap.State
		stats.Projectiles = snap.ProjectileCount
		stats.Volleys = snap.Volleys
		stats.Culled = snap.Culled
	}
	return stats
}

func (r *Runner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(r.fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case cmd := <-r.commands:
			r.apply(cmd)
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Runner) apply(cmd command) {
	switch cmd {
	case cmdReset:
		r.engine.Reset()
		r.paused.Store(false)
		r.resets.Add(1)
		r.engine.ProduceSnapshot()
		log.Println("🔄 Simulation reset")
	}
}

// tick steps the engine once unless paused
func (r *Runner) tick() {
	if r.paused.Load() {
		return
	}

	start := time.Now()
	r.engine.Step(PollInput(r.input))
	elapsed := time.Since(start)

	r.totalFrames.Add(1)
	r.engine.ProduceSnapshot()

	if r.pauseOnDefeat && r.engine.State() == StateDefeated {
		r.paused.Store(true)
		log.Printf("⏸️ Paused on defeat at frame %d", r.engine.FrameCount())
	}

	if r.onFrame != nil {
		r.onFrame(FrameStats{
			Frame:       r.engine.FrameCount(),
			State:       r.engine.State(),
			Projectiles: len(r.engine.Projectiles()),
			Culled:      uint64(r.engine.StepCulled()),
			StepTime:    elapsed,
		})
	}
}
