package game

import (
	"fmt"
	"math"
)

// State is the engine lifecycle state
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateDefeated
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateDefeated:
		return "defeated"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name for JSON snapshots
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateUninitialized, StateRunning, StateDefeated, StateStopped} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// ProjectilePolicy controls what happens to projectiles that leave the playfield
type ProjectilePolicy string

const (
	ProjectilesCull      ProjectilePolicy = "cull"      // Remove once past CullMargin
	ProjectilesUnbounded ProjectilePolicy = "unbounded" // Keep forever
)

// BoundsMode controls how the player is kept on the playfield
type BoundsMode string

const (
	BoundsClamp BoundsMode = "clamp"
	BoundsWrap  BoundsMode = "wrap"
	BoundsFree  BoundsMode = "free"
)

// ParseProjectilePolicy validates a policy name
func ParseProjectilePolicy(s string) (ProjectilePolicy, error) {
	switch p := ProjectilePolicy(s); p {
	case ProjectilesCull, ProjectilesUnbounded:
		return p, nil
	default:
		return "", fmt.Errorf("unknown projectile policy %q (want cull or unbounded)", s)
	}
}

// ParseBoundsMode validates a bounds mode name
func ParseBoundsMode(s string) (BoundsMode, error) {
	switch b := BoundsMode(s); b {
	case BoundsClamp, BoundsWrap, BoundsFree:
		return b, nil
	default:
		return "", fmt.Errorf("unknown bounds mode %q (want clamp, wrap or free)", s)
	}
}

// DefaultPalette cycles red, blue, green
var DefaultPalette = []string{"#ff0000", "#0000ff", "#008000"}

// Simulation defaults
const (
	DefaultWidth         = 640.0
	DefaultHeight        = 480.0
	DefaultSpawnInterval = 40   // Frames between volleys
	DefaultVolleySize    = 36   // Projectiles per ring
	DefaultBaseSpeed     = 2.0  // Target speed of every projectile
	DefaultLethalRadius  = 10.0 // Defeat distance, inclusive
	DefaultCullMargin    = 32.0 // Must exceed ProjectileOuterRadius
)

// EngineConfig holds the tunable parameters of a run
type EngineConfig struct {
	Width, Height    float64
	SpawnInterval    int
	VolleySize       int
	BaseSpeed        float64
	LethalRadius     float64
	Palette          []string
	ProjectilePolicy ProjectilePolicy
	PlayerBounds     BoundsMode
	CullMargin       float64
	PlayerStart      Vec2
}

// DefaultEngineConfig returns the classic 640x480 setup
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		SpawnInterval:    DefaultSpawnInterval,
		VolleySize:       DefaultVolleySize,
		BaseSpeed:        DefaultBaseSpeed,
		LethalRadius:     DefaultLethalRadius,
		Palette:          DefaultPalette,
		ProjectilePolicy: ProjectilesCull,
		PlayerBounds:     BoundsClamp,
		CullMargin:       DefaultCullMargin,
		PlayerStart:      Vec2{X: 320, Y: 400},
	}
}

// Center returns the playfield center, the origin of every volley
func (c EngineConfig) Center() Vec2 {
	return Vec2{X: c.Width / 2, Y: c.Height / 2}
}

// Engine runs the simulation. It is not safe for concurrent use: one
// goroutine owns it and everyone else reads snapshots.
type Engine struct {
	cfg   EngineConfig
	state State

	frame       uint64
	player      *Player
	projectiles []*Projectile
	spawner     *Spawner

	// Per-run stats
	volleys    int
	culled     uint64
	stepCulled int // Culled during the last Step
	defeat     *DefeatEvent

	// Event callbacks
	onVolley func(VolleyEvent)
	onDefeat func(DefeatEvent)

	// Snapshot system for cross-goroutine readers
	snapshotPool *SnapshotPool

	// Lifecycle event log
	eventLog *EventLog
}

// NewEngine creates an engine in the Uninitialized state. Zero or missing
// config fields take their defaults.
func NewEngine(cfg EngineConfig) *Engine {
	cfg = cfg.withDefaults()

	return &Engine{
		cfg:          cfg,
		state:        StateUninitialized,
		projectiles:  make([]*Projectile, 0, cfg.VolleySize*8),
		spawner:      NewSpawner(cfg.Center(), cfg.BaseSpeed, cfg.Palette),
		snapshotPool: NewSnapshotPool(cfg.VolleySize * 8),
		eventLog:     NewEventLog(),
	}
}

func (c EngineConfig) withDefaults() EngineConfig {
	d := DefaultEngineConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.SpawnInterval <= 0 {
		c.SpawnInterval = d.SpawnInterval
	}
	if c.VolleySize <= 0 {
		c.VolleySize = d.VolleySize
	}
	if c.BaseSpeed <= 0 {
		c.BaseSpeed = d.BaseSpeed
	}
	if c.LethalRadius <= 0 {
		c.LethalRadius = d.LethalRadius
	}
	if len(c.Palette) == 0 {
		c.Palette = d.Palette
	}
	if c.ProjectilePolicy == "" {
		c.ProjectilePolicy = d.ProjectilePolicy
	}
	if c.PlayerBounds == "" {
		c.PlayerBounds = d.PlayerBounds
	}
	if c.CullMargin <= 0 {
		c.CullMargin = d.CullMargin
	}
	if c.PlayerStart == (Vec2{}) {
		c.PlayerStart = d.PlayerStart
	}
	return c
}

// Start begins a fresh run. No-op while a run is active.
func (e *Engine) Start() {
	if e.state == StateRunning || e.state == StateDefeated {
		return
	}
	e.newRun()
	e.eventLog.EmitSimple(EventTypeStart, e.frame, StartPayload{
		PlayerX: e.player.Position.X,
		PlayerY: e.player.Position.Y,
	})
}

// Reset discards the current run and starts over from any state
func (e *Engine) Reset() {
	prev := e.frame
	e.newRun()
	e.eventLog.EmitSimple(EventTypeReset, prev, StartPayload{
		PlayerX: e.player.Position.X,
		PlayerY: e.player.Position.Y,
	})
}

// Stop ends the run. Step is a no-op until Start or Reset.
func (e *Engine) Stop() {
	if e.state == StateStopped || e.state == StateUninitialized {
		return
	}
	e.state = StateStopped
	e.eventLog.EmitSimple(EventTypeStop, e.frame, StopPayload{
		Frames:      e.frame,
		Volleys:     e.volleys,
		Projectiles: len(e.projectiles),
		Culled:      e.culled,
	})
}

func (e *Engine) newRun() {
	for i := range e.projectiles {
		e.projectiles[i] = nil
	}
	e.projectiles = e.projectiles[:0]

	e.player = NewPlayer(e.cfg.PlayerStart)
	e.spawner.Reset()
	e.frame = 0
	e.volleys = 0
	e.culled = 0
	e.stepCulled = 0
	e.defeat = nil
	e.state = StateRunning
}

// Step advances the simulation by one frame: projectiles, then the player,
// then the spawn cadence. Stepping continues after defeat.
func (e *Engine) Step(in InputState) {
	if e.state != StateRunning && e.state != StateDefeated {
		return
	}

	e.updateProjectiles()

	e.player.Advance(in)
	e.applyBounds()

	if e.frame%uint64(e.cfg.SpawnInterval) == 0 {
		e.fireVolley()
	}
	e.frame++
}

// updateProjectiles advances every projectile in insertion order and checks
// each against the player. Culled projectiles are filtered in place.
func (e *Engine) updateProjectiles() {
	cull := e.cullEnabled()
	w, h, margin := e.cfg.Width, e.cfg.Height, e.cfg.CullMargin

	n := 0
	for _, p := range e.projectiles {
		p.Advance()

		if e.state == StateRunning && p.Hits(e.player.Position, e.cfg.LethalRadius) {
			e.markDefeated(p)
		}

		if cull && p.OutOfBounds(w, h, margin) {
			continue
		}
		e.projectiles[n] = p
		n++
	}

	// Drop references to culled projectiles
	for i := n; i < len(e.projectiles); i++ {
		e.projectiles[i] = nil
	}
	e.stepCulled = len(e.projectiles) - n
	e.culled += uint64(e.stepCulled)
	e.projectiles = e.projectiles[:n]
}

func (e *Engine) cullEnabled() bool {
	return e.cfg.ProjectilePolicy == ProjectilesCull && e.cfg.PlayerBounds != BoundsFree
}

func (e *Engine) markDefeated(p *Projectile) {
	e.state = StateDefeated
	ev := DefeatEvent{
		Frame:       e.frame,
		PlayerX:     e.player.Position.X,
		PlayerY:     e.player.Position.Y,
		ProjectileX: p.Position.X,
		ProjectileY: p.Position.Y,
		Distance:    Distance(p.Position, e.player.Position),
		Color:       p.Color,
	}
	e.defeat = &ev

	e.eventLog.EmitSimple(EventTypeDefeat, e.frame, ev)
	if e.onDefeat != nil {
		e.onDefeat(ev)
	}
}

func (e *Engine) applyBounds() {
	pos := &e.player.Position
	switch e.cfg.PlayerBounds {
	case BoundsClamp:
		pos.X = math.Max(0, math.Min(pos.X, e.cfg.Width))
		pos.Y = math.Max(0, math.Min(pos.Y, e.cfg.Height))
	case BoundsWrap:
		pos.X = wrap(pos.X, e.cfg.Width)
		pos.Y = wrap(pos.Y, e.cfg.Height)
	}
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

// fireVolley aims a ring at the player's angle around the center and
// appends it to the projectile collection
func (e *Engine) fireVolley() {
	center := e.cfg.Center()
	aim := math.Atan2(e.player.Position.Y-center.Y, e.player.Position.X-center.X)
	color := e.spawner.NextColor()

	ring := e.spawner.FireRing(aim, e.cfg.VolleySize, color)
	e.projectiles = append(e.projectiles, ring...)

	ev := VolleyEvent{
		Frame:    e.frame,
		Index:    e.volleys,
		AimAngle: aim,
		Count:    len(ring),
		Color:    color,
	}
	e.volleys++

	e.eventLog.EmitSimple(EventTypeVolley, e.frame, ev)
	if e.onVolley != nil {
		e.onVolley(ev)
	}
}

// Draw renders the current state back to front: background, projectiles,
// then the player
func (e *Engine) Draw(r Renderer) {
	drawBackground(r, e.cfg.Width, e.cfg.Height)
	for _, p := range e.projectiles {
		p.Render(r)
	}
	if e.player != nil {
		e.player.Render(r)
	}
}

// Frame polls input, steps once and draws
func (e *Engine) Frame(src InputSource, r Renderer) {
	e.Step(PollInput(src))
	e.Draw(r)
}

// SetCallbacks sets event callbacks. Either may be nil.
func (e *Engine) SetCallbacks(onVolley func(VolleyEvent), onDefeat func(DefeatEvent)) {
	e.onVolley = onVolley
	e.onDefeat = onDefeat
}

// State returns the lifecycle state
func (e *Engine) State() State {
	return e.state
}

// FrameCount returns the number of frames stepped in this run
func (e *Engine) FrameCount() uint64 {
	return e.frame
}

// Player returns the player, nil before the first Start
func (e *Engine) Player() *Player {
	return e.player
}

// Projectiles returns the live projectiles in insertion order. The slice is
// owned by the engine and only valid until the next Step.
func (e *Engine) Projectiles() []*Projectile {
	return e.projectiles
}

// VolleyCount returns the volleys fired in this run
func (e *Engine) VolleyCount() int {
	return e.volleys
}

// CulledCount returns the projectiles removed off-field in this run
func (e *Engine) CulledCount() uint64 {
	return e.culled
}

// StepCulled returns the projectiles culled by the last Step
func (e *Engine) StepCulled() int {
	return e.stepCulled
}

// Defeat returns the defeat details, nil while undefeated
func (e *Engine) Defeat() *DefeatEvent {
	return e.defeat
}

// Config returns the effective configuration
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// NextColor returns the color the next volley will use
func (e *Engine) NextColor() string {
	return e.spawner.PeekColor()
}

// GetSnapshot returns a copy of the latest published snapshot, nil before
// the first ProduceSnapshot. Safe from any goroutine.
func (e *Engine) GetSnapshot() *Snapshot {
	return e.snapshotPool.AcquireRead()
}

// ProduceSnapshot publishes an immutable copy of the current state.
// Called by the owner goroutine after each Step.
func (e *Engine) ProduceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.Frame = e.frame
	snap.State = e.state
	snap.Width = e.cfg.Width
	snap.Height = e.cfg.Height
	snap.Volleys = e.volleys
	snap.Culled = e.culled
	snap.NextColor = e.spawner.PeekColor()

	if e.player != nil {
		snap.Player = PlayerSnapshot{X: e.player.Position.X, Y: e.player.Position.Y}
	}
	for _, p := range e.projectiles {
		snap.Projectiles = append(snap.Projectiles, p.ToSnapshot())
	}
	snap.ProjectileCount = len(snap.Projectiles)

	if e.defeat != nil {
		d := *e.defeat
		snap.Defeat = &d
	}

	e.snapshotPool.PublishWrite()
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}

// EventLogCounts returns the logged and dropped event totals
func (e *Engine) EventLogCounts() (total, dropped uint64) {
	return e.eventLog.GetTotalCount(), e.eventLog.GetDroppedCount()
}
