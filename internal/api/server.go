package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"barrage/internal/config"
	"barrage/internal/input"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
type Server struct {
	sim         SimulationInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer creates an API server for sim. remote receives key state from
// WebSocket clients and may be nil.
//
// Background workers do NOT start until Start or StartWorkers is called.
// For HTTP-only tests, use NewRouter directly.
func NewServer(sim SimulationInterface, remote *input.Remote, cfg config.ServerConfig) *Server {
	s := &Server{
		sim:         sim,
		wsHub:       NewWebSocketHub(sim, remote),
		rateLimiter: NewIPRateLimiter(RateLimitFromServer(cfg)),
	}
	if cfg.CORSOrigins != nil {
		SetAllowedOrigins(cfg.CORSOrigins)
	}

	s.router = NewRouter(RouterConfig{
		Simulation:  sim,
		Input:       remote,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.CORSOrigins,
	})

	// The hub instance is needed here, so /ws is not part of NewRouter
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// StartWorkers starts the hub and its broadcast loop without listening
func (s *Server) StartWorkers() {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop()
}

// Start runs the workers and serves until Shutdown.
// It returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.StartWorkers()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("   - state:  http://localhost%s/api/state", addr)
	log.Printf("   - frame:  http://localhost%s/api/frame.png?hud=1", addr)
	log.Printf("   - stream: ws://localhost%s/ws", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Router returns the HTTP handler for use with httptest
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Shutdown stops accepting requests, closes WebSocket clients and stops
// the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wsHub.Stop()
	s.rateLimiter.Stop()
	return err
}
