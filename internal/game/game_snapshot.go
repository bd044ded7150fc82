package game

import (
	"sync"
	"time"
)

// Snapshot is a complete immutable copy of one frame for readers on other
// goroutines (HTTP API, websocket hub, metrics)
type Snapshot struct {
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence for ordering
	Timestamp time.Time `json:"timestamp"` // When snapshot was created
	Frame     uint64    `json:"frame"`     // Frames stepped in this run
	State     State     `json:"state"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Player      PlayerSnapshot       `json:"player"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`

	// Aggregate stats
	ProjectileCount int          `json:"projectileCount"`
	Volleys         int          `json:"volleys"`
	Culled          uint64       `json:"culled"`
	NextColor       string       `json:"nextColor"`
	Defeat          *DefeatEvent `json:"defeat,omitempty"`
}

// Clone returns a deep copy
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Projectiles = make([]ProjectileSnapshot, len(s.Projectiles))
	copy(c.Projectiles, s.Projectiles)
	if s.Defeat != nil {
		d := *s.Defeat
		c.Defeat = &d
	}
	return &c
}

// SnapshotPool double-buffers snapshots: the producer fills the back buffer
// without locking, publishing swaps it to the front, and readers copy the
// front under a read lock.
type SnapshotPool struct {
	mu        sync.RWMutex
	snapshots [2]Snapshot
	front     int
	published bool
	sequence  uint64 // producer only
}

// NewSnapshotPool creates a pool with pre-allocated projectile slices
func NewSnapshotPool(capacity int) *SnapshotPool {
	pool := &SnapshotPool{}
	for i := range pool.snapshots {
		pool.snapshots[i].Projectiles = make([]ProjectileSnapshot, 0, capacity)
	}
	return pool
}

// AcquireWrite gets the back buffer (producer only).
// Returns a snapshot with reset slices but preserved capacity.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	snap := &p.snapshots[1-p.front]

	snap.Projectiles = snap.Projectiles[:0]
	snap.Defeat = nil

	p.sequence++
	snap.Sequence = p.sequence
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite makes the back buffer the latest snapshot
func (p *SnapshotPool) PublishWrite() {
	p.mu.Lock()
	p.front = 1 - p.front
	p.published = true
	p.mu.Unlock()
}

// AcquireRead returns a copy of the latest snapshot, nil if nothing has
// been published yet
func (p *SnapshotPool) AcquireRead() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.published {
		return nil
	}
	return p.snapshots[p.front].Clone()
}

// DrawSnapshot renders a snapshot in the same order as Engine.Draw
func DrawSnapshot(r Renderer, snap *Snapshot) {
	drawBackground(r, snap.Width, snap.Height)
	for _, ps := range snap.Projectiles {
		c := ps.rgba
		if c.A == 0 {
			// Decoded from JSON: the unexported color was not carried
			parsed, err := ParseHexColor(ps.Color)
			if err != nil {
				parsed = projectileInnerRGBA
			}
			c = parsed
		}
		drawProjectile(r, Vec2{X: ps.X, Y: ps.Y}, c)
	}
	if snap.State != StateUninitialized {
		drawPlayer(r, Vec2{X: snap.Player.X, Y: snap.Player.Y})
	}
}
