package main

import (
	"log"
	"os"

	"github.com/gabriel-327/WarrantyWarden/internal/database"
	"github.com/gabriel-327/WarrantyWarden/internal/handlers"
	"github.com/gabriel-327/WarrantyWarden/internal/routes"
	"github.com/gabriel-327/WarrantyWarden/internal/store"
	"github.com/gabriel-327/WarrantyWarden/internal/uploads"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 2. --- Upload Storage ---
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	saver, err := uploads.NewSaver(uploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		Listings: store.NewMySQLListingStore(db),
		Users:    store.NewMySQLUserStore(db),
		Uploads:  saver,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, uploadDir)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting WarrantyWarden API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
