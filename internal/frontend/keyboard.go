package frontend

import (
	"barrage/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
)

// Keyboard reads level-triggered key state from ebiten. WASD mirrors the
// arrow keys.
type Keyboard struct{}

var keyBindings = map[game.Key][]ebiten.Key{
	game.KeyArrowUp:    {ebiten.KeyArrowUp, ebiten.KeyW},
	game.KeyArrowDown:  {ebiten.KeyArrowDown, ebiten.KeyS},
	game.KeyArrowLeft:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	game.KeyArrowRight: {ebiten.KeyArrowRight, ebiten.KeyD},
	game.KeyShiftLeft:  {ebiten.KeyShiftLeft},
}

// KeyPressed implements game.InputSource
func (Keyboard) KeyPressed(k game.Key) bool {
	for _, key := range keyBindings[k] {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}
