package main

import (
	"log"

	"github.com/matching-platform/user-service/internal/app"
	"github.com/matching-platform/user-service/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
