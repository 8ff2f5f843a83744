package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"todo-backend/internal/auth"
	"todo-backend/internal/config"
	"todo-backend/internal/database"
	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	"todo-backend/internal/server"
	"todo-backend/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server gets 5 seconds to finish the requests it is currently
	// handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		log.Println("Closing database connection pool...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		} else {
			log.Println("Database connection pool closed.")
		}
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	cfg := config.Load()

	dbService := database.New()
	gormDB := dbService.GetDB()

	// Schema relationships carry no ON DELETE actions; cascade and
	// set-null behavior lives in the repositories.
	log.Println("Running database auto-migration...")
	err := gormDB.AutoMigrate(&domain.User{}, &domain.Category{}, &domain.Todo{}, &domain.SubTask{})
	if err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}
	log.Println("Database auto-migration complete.")

	userRepo := repository.NewGormUserRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)
	subtaskRepo := repository.NewGormSubTaskRepository(gormDB)
	categoryRepo := repository.NewGormCategoryRepository(gormDB)

	tokenService := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost)
	todoService := service.NewTodoService(todoRepo, subtaskRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	chiServer := server.NewServer(cfg, authService, todoService, categoryService, tokenService, userRepo, dbService)

	done := make(chan bool, 1)

	go gracefulShutdown(chiServer, dbService, done)

	log.Printf("Starting server on %s", chiServer.Addr)
	err = chiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
