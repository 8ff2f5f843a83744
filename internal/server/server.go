package server

import (
	"fmt"
	"net/http"
	"time"

	"todo-backend/internal/auth"
	"todo-backend/internal/config"
	"todo-backend/internal/database"
	"todo-backend/internal/repository"
	"todo-backend/internal/service"
)

type Server struct {
	port            int
	authService     service.AuthService
	todoService     service.TodoService
	categoryService service.CategoryService
	tokens          *auth.TokenService
	users           repository.UserRepository
	db              database.Service
}

func NewServer(
	cfg config.Config,
	authService service.AuthService,
	todoService service.TodoService,
	categoryService service.CategoryService,
	tokens *auth.TokenService,
	users repository.UserRepository,
	dbService database.Service,
) *http.Server {
	appServer := &Server{
		port:            cfg.Port,
		authService:     authService,
		todoService:     todoService,
		categoryService: categoryService,
		tokens:          tokens,
		users:           users,
		db:              dbService,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
