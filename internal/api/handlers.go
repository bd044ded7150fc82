package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"barrage/internal/game"
	"barrage/internal/render"
	"barrage/internal/telemetry"
)

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"running": h.sim.Stats().Running,
	})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.sim.GetSnapshot()
	if snap == nil {
		writeError(w, "Simulation has not produced a frame yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.sim.Stats())
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	snap := h.sim.GetSnapshot()
	if snap == nil {
		writeError(w, "Simulation has not produced a frame yet", http.StatusServiceUnavailable)
		return
	}

	hud := r.URL.Query().Get("hud") == "1"

	// Render into a buffer so an encode failure can still produce a JSON error
	start := time.Now()
	var buf bytes.Buffer
	if err := render.SnapshotPNG(&buf, snap, hud); err != nil {
		log.Printf("❌ Frame render failed: %v", err)
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}
	telemetry.RecordRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handleGetInput(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.input.Held())
}

func (h *routerHandlers) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.sim.Reset(); err != nil {
		if errors.Is(err, game.ErrRunnerStopped) {
			writeError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Println("🔄 Reset requested via API")
	telemetry.RecordReset()
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
