package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"barrage/internal/game"
)

func TestDebugHandlerHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	DebugHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("Unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsExposed(t *testing.T) {
	RecordFrame(game.FrameStats{Frame: 10, Projectiles: 36, Culled: 2, StepTime: time.Millisecond})
	RecordVolley(game.VolleyEvent{})
	RecordDefeat(game.DefeatEvent{})
	RecordRequest(http.MethodGet, "/api/state", http.StatusOK, time.Millisecond)
	IncrementWSMessages("out")

	srv := httptest.NewServer(DebugHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{
		"barrage_projectiles 36",
		"barrage_frame 10",
		"barrage_volleys_total",
		"barrage_defeats_total",
		"barrage_culled_total",
		"barrage_step_duration_seconds",
		"http_requests_total",
		"websocket_messages_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Metrics output missing %q", name)
		}
	}
}

func TestIsLocalAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:6060", true},
		{"localhost:9000", true},
		{"0.0.0.0:6060", false},
		{":6060", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isLocalAddr(tt.addr); got != tt.want {
			t.Errorf("isLocalAddr(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
