package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"battleship/internal/api"
	"battleship/internal/area"
	"battleship/internal/broadcast"
	"battleship/internal/config"
	"battleship/internal/htmx"
	"battleship/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize layers
	hub := broadcast.NewHub()
	areas := area.NewRegistry(hub)

	// Setup routes
	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewHandler(areas).Router(cfg.AllowedOrigins))
	ws.NewHandler(areas, hub).RegisterRoutes(mux)
	htmx.NewHandler(areas, hub).RegisterRoutes(mux)

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	server := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
