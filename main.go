package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/buglab/bug-lab-be/internal/api"
	"github.com/buglab/bug-lab-be/internal/config"
	"github.com/buglab/bug-lab-be/internal/database"
	"github.com/buglab/bug-lab-be/internal/logger"
	"github.com/buglab/bug-lab-be/internal/monitoring"
	"github.com/buglab/bug-lab-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	scientistService := services.NewScientistService(db)
	bugService := services.NewBugService(db)
	assignmentService := services.NewAssignmentService(db)
	sessionService := services.NewSessionService(db, cfg.SessionTTL)

	// Set up and run the background session reaper
	reaper := monitoring.NewSessionReaper(sessionService)
	go reaper.Run()

	// Set up router
	router := api.NewRouter(cfg, userService, scientistService, bugService, assignmentService, sessionService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	reaper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
