package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/adapters/postgres"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/adapters/uploads"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/app"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/config"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	var (
		uploadSvc    ports.UploadServicePort
		trackerSvc   ports.TrackerServicePort
		uploadAdmin  ports.UploadAdminPort
		trackerAdmin ports.TrackerAdminPort
	)
	if cfg.Uploads.BaseURL != "" {
		// Ingestion belongs to the remote service; no admin endpoints here.
		client := uploads.NewClient(cfg.Uploads)
		uploadSvc = client
		trackerSvc = uploads.NewTrackerClient(client)
		log.Printf("Using remote upload service at %s", cfg.Uploads.BaseURL)
	} else {
		localUploads := app.NewLocalUploadService(postgres.NewUploadRepository(db), cfg.Storage)
		localTracker := app.NewLocalTrackerService(postgres.NewTrackerRepository(db))
		uploadSvc = localUploads
		trackerSvc = localTracker
		uploadAdmin = localUploads
		trackerAdmin = localTracker
		log.Println("Using in-process upload service")
	}

	pages := app.NewPageService(uploadSvc, trackerSvc)
	server := ui.NewServer(cfg.Server, pages, uploadSvc, uploadAdmin, trackerAdmin)

	log.Printf("Starting dashboard on :%s", cfg.Server.Port)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
