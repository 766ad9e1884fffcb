package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tendant/picture-validation/internal/config"
	"github.com/tendant/picture-validation/internal/handlers"
	"github.com/tendant/picture-validation/internal/metrics"
	"github.com/tendant/picture-validation/internal/storage"
	"github.com/tendant/picture-validation/internal/vision"
	"github.com/tendant/picture-validation/internal/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Picture Validation")
	log.Printf("  Environment: %s", cfg.Environment)
	log.Printf("  Storage backend: %s", cfg.StorageBackend)
	log.Printf("  Storage account: %s", cfg.StorageAccountURL)
	log.Printf("  Vision endpoint: %s (%s)", cfg.CognitiveAPIURL, cfg.CognitiveAPIVersion)
	log.Printf("  HTTP address: %s", cfg.HTTPAddr)

	writer, cleanup, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	log.Printf("✓ Storage initialized")

	m := metrics.New()

	visionClient := vision.NewClient(vision.Config{
		Endpoint:   cfg.CognitiveAPIURL,
		APIKey:     cfg.CognitiveAPIKey,
		APIVersion: cfg.CognitiveAPIVersion,
	})

	workflow := workflows.NewPictureValidationWorkflow(cfg, writer, m.InstrumentDetector(visionClient))
	log.Printf("✓ Registered workflow: %s", workflow.Name())

	uploadHandler := handlers.NewUploadHandler(workflow, m)
	router := handlers.NewRouter(uploadHandler, cfg.FunctionName, m.Handler())

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("✓ Picture validation ready on %s", cfg.HTTPAddr)
		log.Printf("")
		log.Printf("Available endpoints:")
		log.Printf("  GET  /health                 - Health check")
		log.Printf("  GET  /metrics                - Prometheus metrics")
		log.Printf("  POST /api/upload             - Upload a picture (?robotName=&filename=)")
		log.Printf("  POST /api/%s", cfg.FunctionName)
		log.Printf("")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
