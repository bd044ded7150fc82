package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeStart             // Engine entered Running
	EventTypeVolley            // A ring was fired
	EventTypeDefeat            // Running -> Defeated
	EventTypeReset             // Fresh run started from any state
	EventTypeStop              // Engine stopped
)

// EventVersion for backwards compatibility of the log format
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	Frame     uint64          `json:"frame"`     // Frame this occurred in
	Payload   json.RawMessage `json:"payload"` // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeStart:
		return "start"
	case EventTypeVolley:
		return "volley"
	case EventTypeDefeat:
		return "defeat"
	case EventTypeReset:
		return "reset"
	case EventTypeStop:
		return "stop"
	default:
		return "unknown"
	}
}

// MarshalJSON writes the type by name so the log is readable without a decoder
func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// StartPayload records the initial player position
type StartPayload struct {
	PlayerX float64 `json:"playerX"`
	PlayerY float64 `json:"playerY"`
}

// VolleyEvent describes one fired ring. It is both the callback argument
// and the event payload.
type VolleyEvent struct {
	Frame    uint64  `json:"frame"`
	Index    int     `json:"index"` // Zero-based volley number in this run
	AimAngle float64 `json:"aimAngle"`
	Count    int     `json:"count"`
	Color    string  `json:"color"`
}

// DefeatEvent describes the projectile that reached the player
type DefeatEvent struct {
	Frame       uint64  `json:"frame"`
	PlayerX     float64 `json:"playerX"`
	PlayerY     float64 `json:"playerY"`
	ProjectileX float64 `json:"projectileX"`
	ProjectileY float64 `json:"projectileY"`
	Distance    float64 `json:"distance"`
	Color       string  `json:"color"`
}

// StopPayload summarizes a run when the engine stops
type StopPayload struct {
	Frames      uint64 `json:"frames"`
	Volleys     int    `json:"volleys"`
	Projectiles int    `json:"projectiles"`
	Culled      uint64 `json:"culled"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, frame uint64, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		Frame:     frame,
		Payload:   EncodePayload(payload),
	}
}
