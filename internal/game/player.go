package game

import "math"

// Player movement constants
const (
	PlayerSpeed          = 4.0 // Units per frame
	PlayerPrecisionSpeed = 1.0 // Units per frame while the modifier is held
)

// InputState is the level-triggered key state for one frame
type InputState struct {
	Up        bool `json:"up"`
	Down      bool `json:"down"`
	Left      bool `json:"left"`
	Right     bool `json:"right"`
	Precision bool `json:"precision"` // Slow mode
}

// Player is the controlled entity
type Player struct {
	Position Vec2
}

// NewPlayer creates a player at the given position
func NewPlayer(pos Vec2) *Player {
	return &Player{Position: pos}
}

// Velocity converts input into a unit-or-zero direction.
// Diagonals are divided by sqrt(2) so they are not faster than straight moves.
func Velocity(in InputState) Vec2 {
	var v Vec2
	if in.Up {
		v.Y--
	}
	if in.Down {
		v.Y++
	}
	if in.Left {
		v.X--
	}
	if in.Right {
		v.X++
	}

	if v.X != 0 && v.Y != 0 {
		v.X /= math.Sqrt2
		v.Y /= math.Sqrt2
	}
	return v
}

// Speed returns the scalar speed for the input's modifier state
func Speed(in InputState) float64 {
	if in.Precision {
		return PlayerPrecisionSpeed
	}
	return PlayerSpeed
}

// Advance moves the player by one frame of input. Bounds are applied by the engine.
func (p *Player) Advance(in InputState) {
	p.Position = p.Position.Add(Velocity(in).Scale(Speed(in)))
}

// Render draws the player
func (p *Player) Render(r Renderer) {
	drawPlayer(r, p.Position)
}

// PlayerSnapshot is an immutable copy of player state
type PlayerSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
