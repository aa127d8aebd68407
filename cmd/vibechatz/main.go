package main

import (
	"log"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/app"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	app.Run(cfg)
}
