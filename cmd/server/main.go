package main

import (
	"context"
	"log"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
