package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devlink/auth"
	"devlink/config"
	"devlink/database"
	"devlink/handlers"
	"devlink/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting devlink API server...")

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Connect to MongoDB with retry
	client, err := database.Connect(cfg.MongoURI)
	for i := 1; err != nil && i < 3; i++ {
		log.Printf("MongoDB connection attempt %d failed: %v", i, err)
		time.Sleep(2 * time.Second)
		client, err = database.Connect(cfg.MongoURI)
	}
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	db := database.NewCollections(client, cfg.DBName)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(idxCtx, db); err != nil {
		log.Fatal("Failed to create indexes: ", err)
	}
	idxCancel()

	h := handlers.New(cfg, tokens, db)
	router := routes.SetupRouter(h, tokens)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown: ", err)
	}
	if err := database.Disconnect(client); err != nil {
		log.Println("MongoDB disconnect: ", err)
	}

	log.Println("Server stopped")
}
