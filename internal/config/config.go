// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation and host settings.
//
// IMPORTANT: When changing defaults, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"barrage/internal/game"
)

// =============================================================================
// VIDEO & CANVAS CONFIGURATION
// =============================================================================

// VideoConfig holds all video/canvas related settings.
// These values are shared between the engine, the window and the PNG renderer.
type VideoConfig struct {
	Width  int     // Playfield width in pixels
	Height int     // Playfield height in pixels
	FPS    int     // Frames per second (also the simulation step rate)
	Scale  float64 // Window scale factor
}

// DefaultVideo returns the default video configuration.
func DefaultVideo() VideoConfig {
	return VideoConfig{
		Width:  640,
		Height: 480,
		FPS:    60,
		Scale:  1,
	}
}

// VideoFromEnv returns video configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func VideoFromEnv() VideoConfig {
	cfg := DefaultVideo()

	if fps := getEnvInt("BARRAGE_FPS", 0); fps > 0 {
		cfg.FPS = fps
	}
	if s := getEnvFloat("BARRAGE_SCALE", 0); s > 0 {
		cfg.Scale = s
	}

	return cfg
}

// =============================================================================
// GAME CONFIGURATION
// =============================================================================

// GameConfig holds the simulation tuning.
type GameConfig struct {
	SpawnInterval    int     // Frames between volleys
	VolleySize       int     // Projectiles per volley
	BaseSpeed        float64 // Projectile target speed
	LethalRadius     float64 // Defeat distance
	Palette          []string
	ProjectilePolicy string // cull | unbounded
	PlayerBounds     string // clamp | wrap | free
}

// DefaultGame returns the default game configuration.
func DefaultGame() GameConfig {
	return GameConfig{
		SpawnInterval:    game.DefaultSpawnInterval,
		VolleySize:       game.DefaultVolleySize,
		BaseSpeed:        game.DefaultBaseSpeed,
		LethalRadius:     game.DefaultLethalRadius,
		Palette:          append([]string(nil), game.DefaultPalette...),
		ProjectilePolicy: string(game.ProjectilesCull),
		PlayerBounds:     string(game.BoundsClamp),
	}
}

// GameFromEnv returns game configuration with environment variable overrides.
func GameFromEnv() GameConfig {
	cfg := DefaultGame()

	if v := getEnvInt("BARRAGE_SPAWN_INTERVAL", 0); v > 0 {
		cfg.SpawnInterval = v
	}
	if v := getEnvInt("BARRAGE_VOLLEY_SIZE", 0); v > 0 {
		cfg.VolleySize = v
	}
	if p := os.Getenv("BARRAGE_PALETTE"); p != "" {
		cfg.Palette = splitList(p)
	}
	if v := os.Getenv("BARRAGE_PROJECTILES"); v != "" {
		cfg.ProjectilePolicy = v
	}
	if v := os.Getenv("BARRAGE_BOUNDS"); v != "" {
		cfg.PlayerBounds = v
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int
	PauseOnDefeat bool     // Headless runner stops stepping after defeat
	CORSOrigins   []string // nil uses the router's localhost defaults
	RateLimit     float64  // Requests per second per IP
	RateBurst     int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:          3000,
		PauseOnDefeat: false,
		RateLimit:     10,
		RateBurst:     20,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if os.Getenv("BARRAGE_PAUSE_ON_DEFEAT") == "true" {
		cfg.PauseOnDefeat = true
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := getEnvFloat("RATE_LIMIT_RPS", 0); v > 0 {
		cfg.RateLimit = v
	}
	if v := getEnvInt("RATE_LIMIT_BURST", 0); v > 0 {
		cfg.RateBurst = v
	}

	return cfg
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig holds debug server settings.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string // Localhost only
}

// DefaultObservability returns the default observability configuration.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// ObservabilityFromEnv returns observability configuration with environment overrides.
func ObservabilityFromEnv() ObservabilityConfig {
	cfg := DefaultObservability()

	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.Enabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Video         VideoConfig
	Game          GameConfig
	Server        ServerConfig
	Observability ObservabilityConfig
	EventLogPath  string // Empty disables the file
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	eventLogPath, ok := os.LookupEnv("EVENT_LOG_PATH")
	if !ok {
		eventLogPath = "events.jsonl"
	}

	return AppConfig{
		Video:         VideoFromEnv(),
		Game:          GameFromEnv(),
		Server:        ServerFromEnv(),
		Observability: ObservabilityFromEnv(),
		EventLogPath:  eventLogPath,
	}
}

// Validate reports every invalid setting.
func (c AppConfig) Validate() error {
	var errs []error

	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		errs = append(errs, fmt.Errorf("video size %dx%d must be positive", c.Video.Width, c.Video.Height))
	}
	if c.Video.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.Video.FPS))
	}
	if c.Game.SpawnInterval <= 0 {
		errs = append(errs, fmt.Errorf("spawn interval %d must be positive", c.Game.SpawnInterval))
	}
	if c.Game.VolleySize <= 0 {
		errs = append(errs, fmt.Errorf("volley size %d must be positive", c.Game.VolleySize))
	}
	if len(c.Game.Palette) == 0 {
		errs = append(errs, errors.New("palette must not be empty"))
	}
	for _, col := range c.Game.Palette {
		if _, err := game.ParseHexColor(col); err != nil {
			errs = append(errs, fmt.Errorf("palette: %w", err))
		}
	}
	if _, err := game.ParseProjectilePolicy(c.Game.ProjectilePolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := game.ParseBoundsMode(c.Game.PlayerBounds); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}

// EngineConfig converts the loaded settings into the engine's configuration.
// Call Validate first; unknown modes fall back to the engine defaults.
func (c AppConfig) EngineConfig() game.EngineConfig {
	cfg := game.DefaultEngineConfig()
	cfg.Width = float64(c.Video.Width)
	cfg.Height = float64(c.Video.Height)
	cfg.SpawnInterval = c.Game.SpawnInterval
	cfg.VolleySize = c.Game.VolleySize
	cfg.BaseSpeed = c.Game.BaseSpeed
	cfg.LethalRadius = c.Game.LethalRadius
	cfg.Palette = c.Game.Palette

	if p, err := game.ParseProjectilePolicy(c.Game.ProjectilePolicy); err == nil {
		cfg.ProjectilePolicy = p
	}
	if b, err := game.ParseBoundsMode(c.Game.PlayerBounds); err == nil {
		cfg.PlayerBounds = b
	}

	// Keep the classic start spot relative to the playfield
	cfg.PlayerStart = game.Vec2{X: cfg.Width / 2, Y: cfg.Height * 400 / 480}

	return cfg
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
