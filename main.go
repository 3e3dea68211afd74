package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/taskstack/taskstack-be/internal/api"
	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/config"
	"github.com/taskstack/taskstack-be/internal/logger"
	"github.com/taskstack/taskstack-be/internal/monitoring"
	"github.com/taskstack/taskstack-be/internal/rowstore"
	"github.com/taskstack/taskstack-be/internal/services"
	"github.com/taskstack/taskstack-be/internal/websocket"
)

func main() {
	// Load .env before reading configuration
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or error loading:", err)
	}

	logger.Init()

	// Load configuration; missing required values abort startup
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up the row-store client
	store := rowstore.New(cfg.SupabaseURL, cfg.SupabaseAnonKey)

	// Set up the token codec
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTExpiresIn)

	// Set up the task event feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(store)
	taskService := services.NewTaskService(store, hub)

	// Set up and run the background health monitor
	monitor := monitoring.NewHealthMonitor(store)
	monitor.Start()

	// Set up router
	router := api.NewRouter(cfg, codec, hub, userService, taskService)

	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
