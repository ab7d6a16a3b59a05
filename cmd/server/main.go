package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/paddock-backend-go/internal/api"
	"github.com/jengzang/paddock-backend-go/internal/config"
	"github.com/jengzang/paddock-backend-go/internal/database"
	"github.com/jengzang/paddock-backend-go/internal/repository"
	"github.com/jengzang/paddock-backend-go/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("Failed to create data directory:", err)
		}
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	svc, err := service.NewFarmService(repository.NewStateRepository(db))
	if err != nil {
		log.Fatal("Failed to restore session:", err)
	}
	if cfg.JWTSecret == "" {
		log.Printf("[Server] JWT_SECRET not set, mutating routes are open")
	}

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           api.SetupRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Printf("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] Shutdown error: %v", err)
	}
}
