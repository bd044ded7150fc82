package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"barrage/internal/api"
	"barrage/internal/config"
	"barrage/internal/game"
	"barrage/internal/input"
	"barrage/internal/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	loadEnv()

	log.Println("🎯 ================================")
	log.Println("🎯  BARRAGE - HEADLESS SERVER")
	log.Println("🎯 ================================")

	appConfig := config.Load()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	videoCfg := appConfig.Video
	serverCfg := appConfig.Server

	engine := game.NewEngine(appConfig.EngineConfig())
	engCfg := engine.Config()
	log.Printf("🎮 Config: %d FPS, %.0fx%.0f, volley of %d every %d frames, %s projectiles, %s bounds",
		videoCfg.FPS, engCfg.Width, engCfg.Height, engCfg.VolleySize, engCfg.SpawnInterval,
		engCfg.ProjectilePolicy, engCfg.PlayerBounds)

	if appConfig.EventLogPath != "" {
		if err := engine.StartEventLog(appConfig.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", appConfig.EventLogPath)
		}
	}
	telemetry.RegisterEventLogStats(engine.EventLogCounts)

	engine.SetCallbacks(
		telemetry.RecordVolley,
		func(d game.DefeatEvent) {
			telemetry.RecordDefeat(d)
			log.Printf("💥 Defeat at frame %d (%.1f px from a %s projectile)", d.Frame, d.Distance, d.Color)
		},
	)

	if err := telemetry.StartDebugServer(appConfig.Observability); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	remote := input.NewRemote()
	runner := game.NewRunner(engine, remote, videoCfg.FPS, serverCfg.PauseOnDefeat)
	runner.SetFrameHook(telemetry.RecordFrame)
	runner.Start()

	server := api.NewServer(runner, remote, serverCfg)
	addr := ":" + strconv.Itoa(serverCfg.Port)

	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ API shutdown: %v", err)
	}
	runner.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// loadEnv reads .env from the parent directory, then the current one
func loadEnv() {
	if err := godotenv.Load("../.env"); err == nil {
		log.Println("✅ Loaded environment from ../.env")
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}
}
