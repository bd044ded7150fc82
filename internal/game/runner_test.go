package game

import (
	"errors"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRunnerStartStop(t *testing.T) {
	r := NewRunner(NewEngine(DefaultEngineConfig()), nil, 200, false)

	if r.GetSnapshot() != nil {
		t.Error("Expected no snapshot before Start")
	}

	r.Start()
	r.Start() // no-op
	if !r.Running() {
		t.Fatal("Expected runner to be running")
	}

	waitFor(t, 2*time.Second, func() bool {
		snap := r.GetSnapshot()
		return snap != nil && snap.Frame >= 5
	})

	r.Stop()
	if r.Running() {
		t.Error("Expected runner to be stopped")
	}
	if snap := r.GetSnapshot(); snap.State != StateStopped {
		t.Errorf("Expected stopped snapshot, got %s", snap.State)
	}

	// Should not panic on double stop
	r.Stop()
}

func TestRunnerReset(t *testing.T) {
	r := NewRunner(NewEngine(DefaultEngineConfig()), nil, 200, false)

	if err := r.Reset(); !errors.Is(err, ErrRunnerStopped) {
		t.Errorf("Expected ErrRunnerStopped before Start, got %v", err)
	}

	r.Start()
	defer r.Stop()

	waitFor(t, 2*time.Second, func() bool { return r.GetSnapshot().Frame >= 20 })

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return r.Stats().Resets == 1 })

	if snap := r.GetSnapshot(); snap.Frame >= 20 {
		t.Errorf("Expected frame to restart after reset, got %d", snap.Frame)
	}
}

func TestRunnerPauseOnDefeat(t *testing.T) {
	cfg := DefaultEngineConfig()
	// Start at the center: the first volley reaches the player immediately
	cfg.PlayerStart = cfg.Center()
	r := NewRunner(NewEngine(cfg), nil, 500, true)

	r.Start()
	defer r.Stop()

	waitFor(t, 2*time.Second, r.Paused)

	frame := r.GetSnapshot().Frame
	time.Sleep(50 * time.Millisecond)
	if got := r.GetSnapshot().Frame; got != frame {
		t.Errorf("Runner kept stepping while paused: %d -> %d", frame, got)
	}
	if r.GetSnapshot().State != StateDefeated {
		t.Errorf("Expected defeated state, got %s", r.GetSnapshot().State)
	}

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return r.Stats().Resets == 1 })
	if r.Paused() && r.GetSnapshot().State == StateRunning {
		t.Error("Reset left the runner paused")
	}
}

func TestRunnerInputAndHook(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.SpawnInterval = 100000
	r := NewRunner(NewEngine(cfg), scriptedInput{KeyArrowLeft: true}, 200, false)

	hookFrames := make(chan uint64, 1024)
	r.SetFrameHook(func(fs FrameStats) {
		select {
		case hookFrames <- fs.Frame:
		default:
		}
	})

	r.Start()
	waitFor(t, 2*time.Second, func() bool { return r.GetSnapshot().Frame >= 3 })
	r.Stop()

	snap := r.GetSnapshot()
	if snap.Player.X >= 320 {
		t.Errorf("Expected player to move left, at %v", snap.Player.X)
	}
	if len(hookFrames) == 0 {
		t.Error("Frame hook was never called")
	}

	stats := r.Stats()
	if stats.TotalFrames == 0 || stats.FPS != 200 || stats.Running {
		t.Errorf("Unexpected stats %+v", stats)
	}
}
