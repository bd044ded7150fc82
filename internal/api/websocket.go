package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"barrage/internal/input"
	"barrage/internal/telemetry"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 100

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 4

	// BroadcastInterval is how often the latest snapshot is pushed (10 Hz)
	BroadcastInterval = 100 * time.Millisecond

	writeWait      = 2 * time.Second
	maxMessageSize = 1024
)

// Client message types
const (
	MessageInput = "input"
	MessageReset = "reset"
)

// ClientMessage is sent by a client, e.g.
// {"type":"input","keys":{"ArrowLeft":true,"ShiftLeft":true}}
type ClientMessage struct {
	Type string         `json:"type"`
	Keys input.KeyState `json:"keys,omitempty"`
}

// Envelope wraps every message pushed to clients
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		telemetry.RecordConnectionRejected("origin")
		return false
	},
}

type wsClient struct {
	conn      *websocket.Conn
	ip        string
	sentInput atomic.Bool
}

// WebSocketHub streams snapshots to spectators and feeds client key state
// into the remote input source. Only the Run goroutine writes to connections.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	mu         sync.RWMutex

	connLimiter *ConnLimiter
	sim         SimulationInterface
	remote      *input.Remote // nil means spectators only

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWebSocketHub creates a hub. remote may be nil.
func NewWebSocketHub(sim SimulationInterface, remote *input.Remote) *WebSocketHub {
	return &WebSocketHub{
		clients:     make(map[*websocket.Conn]*wsClient),
		broadcast:   make(chan []byte, 64),
		register:    make(chan *wsClient),
		unregister:  make(chan *websocket.Conn),
		connLimiter: NewConnLimiter(MaxWSConnectionsPerIP),
		sim:         sim,
		remote:      remote,
		stopChan:    make(chan struct{}),
	}
}

// Run services registrations and broadcasts until Stop
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			telemetry.UpdateWSConnections(count)

			// Late joiners get the current frame without waiting for a change
			if msg := h.stateMessage(); msg != nil {
				if err := h.write(client.conn, msg); err != nil {
					h.remove(client.conn)
				}
			}

		case conn := <-h.unregister:
			h.remove(conn)

		case message := <-h.broadcast:
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()

			for _, conn := range conns {
				if err := h.write(conn, message); err != nil {
					h.remove(conn)
				}
			}
			telemetry.IncrementWSMessages("out")
		}
	}
}

// Stop closes every connection and ends Run and the broadcast loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

func (h *WebSocketHub) write(conn *websocket.Conn, msg []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	client, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.connLimiter.Release(client.ip)
	conn.Close()

	// A vanished driver must not leave keys held
	if client.sentInput.Load() && h.remote != nil {
		h.remote.Release()
	}

	log.Printf("📱 Client disconnected (%d remaining)", count)
	telemetry.UpdateWSConnections(count)
}

func (h *WebSocketHub) closeAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		h.remove(conn)
	}
}

// Broadcast queues an event for all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	jsonBytes, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("⚠️ WebSocket encode failed: %v", err)
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WebSocketHub) stateMessage() []byte {
	snap := h.sim.GetSnapshot()
	if snap == nil {
		return nil
	}
	msg, err := json.Marshal(Envelope{Event: "game:state", Data: snap})
	if err != nil {
		return nil
	}
	return msg
}

// StartBroadcastLoop pushes each new snapshot at BroadcastInterval.
// Frames that have not advanced (paused or stopped) are not resent.
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(BroadcastInterval)

	go func() {
		defer ticker.Stop()
		var lastSeq uint64

		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := h.sim.GetSnapshot()
			if snap == nil || snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast("game:state", snap)
		}
	}()
}

// HandleWebSocket upgrades the request and reads client messages
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached")
		telemetry.RecordConnectionRejected("ws_limit")
		writeError(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.connLimiter.Acquire(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		telemetry.RecordConnectionRejected("ws_limit")
		writeError(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.connLimiter.Release(ip)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &wsClient{conn: conn, ip: ip}
	select {
	case h.register <- client:
	case <-h.stopChan:
		h.connLimiter.Release(ip)
		conn.Close()
		return
	}

	go h.readLoop(client)
}

func (h *WebSocketHub) readLoop(client *wsClient) {
	defer func() {
		select {
		case h.unregister <- client.conn:
		case <-h.stopChan:
		}
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		telemetry.IncrementWSMessages("in")

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			telemetry.RecordConnectionRejected("invalid")
			continue
		}
		h.handleMessage(client, msg)
	}
}

func (h *WebSocketHub) handleMessage(client *wsClient, msg ClientMessage) {
	switch msg.Type {
	case MessageInput:
		if h.remote == nil {
			return
		}
		if err := h.remote.Set(msg.Keys); err != nil {
			log.Printf("⚠️ Bad input from %s: %v", client.ip, err)
			return
		}
		client.sentInput.Store(true)

	case MessageReset:
		if err := h.sim.Reset(); err != nil {
			log.Printf("⚠️ Reset from %s failed: %v", client.ip, err)
			return
		}
		telemetry.RecordReset()
		log.Printf("🔄 Reset requested by %s", client.ip)

	default:
		log.Printf("📨 Unknown WebSocket message type %q from %s", msg.Type, client.ip)
	}
}
