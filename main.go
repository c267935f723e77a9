package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"yearbars/internal/config"
	"yearbars/internal/container"
	"yearbars/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server, err := ui.NewServer(appContainer.Charts, ui.Options{MaxUploadBytes: appConfig.Upload.MaxBytes})
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	appContainer.Logger.Info("Chart upload page on http://localhost:%s (strict extraction: %t)",
		appConfig.Server.Port, appConfig.Chart.Extract.Strict)
	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
