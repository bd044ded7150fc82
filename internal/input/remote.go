// Package input provides the remote key-state source driven by network clients.
package input

import (
	"fmt"
	"sync/atomic"
	"time"

	"barrage/internal/game"
)

// RemoteTimeout releases all keys if no update arrives for this long, so a
// dropped client cannot leave the player moving forever
const RemoteTimeout = 2 * time.Second

// KeyState is the wire form of held keys, keyed by key code name
type KeyState map[string]bool

// Remote holds key state set by a network client. Writers and the
// simulation goroutine may run concurrently.
type Remote struct {
	bits    atomic.Uint32
	updated atomic.Int64 // Unix nano of the last Set
	now     func() time.Time
}

// NewRemote creates a remote source with no keys held
func NewRemote() *Remote {
	return &Remote{now: time.Now}
}

// Set replaces the held keys. Unknown key names are rejected.
func (r *Remote) Set(state KeyState) error {
	var bits uint32
	for name, held := range state {
		k, ok := keyByName(name)
		if !ok {
			return fmt.Errorf("unknown key %q", name)
		}
		if held {
			bits |= 1 << k
		}
	}
	r.bits.Store(bits)
	r.updated.Store(r.now().UnixNano())
	return nil
}

// Release clears all held keys
func (r *Remote) Release() {
	r.bits.Store(0)
}

// KeyPressed implements game.InputSource
func (r *Remote) KeyPressed(k game.Key) bool {
	last := r.updated.Load()
	if last == 0 || r.now().Sub(time.Unix(0, last)) > RemoteTimeout {
		return false
	}
	return r.bits.Load()&(1<<k) != 0
}

// Held returns the current state in wire form
func (r *Remote) Held() KeyState {
	state := KeyState{}
	for _, k := range allKeys {
		state[k.String()] = r.KeyPressed(k)
	}
	return state
}

var allKeys = []game.Key{
	game.KeyArrowUp,
	game.KeyArrowDown,
	game.KeyArrowLeft,
	game.KeyArrowRight,
	game.KeyShiftLeft,
}

func keyByName(name string) (game.Key, bool) {
	for _, k := range allKeys {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
