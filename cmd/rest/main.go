package main

import (
	"context"
	"log"

	"github.com/fatih/color"

	"kb-assistant-be/internal/bootstrap"
	"kb-assistant-be/internal/config"
	"kb-assistant-be/internal/server"
	"kb-assistant-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	color.Cyan("📚 Knowledge Base Assistant")
	color.Cyan("   provider=%s model=%s data=%s", cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.App.DataDir)

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go container.Dispatcher.Run(context.Background())

	// 4. Initialize Server
	srv := server.New(cfg, container, container.Logger)

	// 5. Run Server
	log.Fatal(srv.Run())
}
