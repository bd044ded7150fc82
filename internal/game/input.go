package game

// Key identifies one of the keys the simulation reads
type Key uint8

const (
	KeyArrowUp Key = iota
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyShiftLeft
)

// String returns the key code name
func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	case KeyArrowLeft:
		return "ArrowLeft"
	case KeyArrowRight:
		return "ArrowRight"
	case KeyShiftLeft:
		return "ShiftLeft"
	default:
		return "Unknown"
	}
}

// InputSource reports current key-down state
type InputSource interface {
	KeyPressed(k Key) bool
}

// PollInput reads the level-triggered state of every key the player uses.
// A nil source reads as no keys held.
func PollInput(src InputSource) InputState {
	if src == nil {
		return InputState{}
	}
	return InputState{
		Up:        src.KeyPressed(KeyArrowUp),
		Down:      src.KeyPressed(KeyArrowDown),
		Left:      src.KeyPressed(KeyArrowLeft),
		Right:     src.KeyPressed(KeyArrowRight),
		Precision: src.KeyPressed(KeyShiftLeft),
	}
}
