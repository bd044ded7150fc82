package main

import (
	"errors"
	"log"

	"barrage/internal/config"
	"barrage/internal/frontend"
	"barrage/internal/game"
	"barrage/internal/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	appConfig := config.Load()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	videoCfg := appConfig.Video

	engine := game.NewEngine(appConfig.EngineConfig())

	if appConfig.EventLogPath != "" {
		if err := engine.StartEventLog(appConfig.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		}
	}
	telemetry.RegisterEventLogStats(engine.EventLogCounts)

	engine.SetCallbacks(
		telemetry.RecordVolley,
		func(d game.DefeatEvent) {
			telemetry.RecordDefeat(d)
			log.Printf("💥 Defeat at frame %d", d.Frame)
		},
	)

	if err := telemetry.StartDebugServer(appConfig.Observability); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	g := frontend.New(engine, frontend.Options{
		PauseOnDefeat: true,
	})

	ebiten.SetWindowSize(int(float64(videoCfg.Width)*videoCfg.Scale), int(float64(videoCfg.Height)*videoCfg.Scale))
	ebiten.SetWindowTitle("Barrage")
	ebiten.SetTPS(videoCfg.FPS)

	err := ebiten.RunGame(g)
	engine.Stop()
	engine.StopEventLog()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("❌ %v", err)
	}
}
