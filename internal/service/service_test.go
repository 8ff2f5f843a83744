package service

import (
	"testing"
	"time"

	"todo-backend/internal/auth"
	"todo-backend/internal/domain"
	"todo-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	tokens     *auth.TokenService
	authSvc    AuthService
	todoSvc    TodoService
	categories CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Category{}, &domain.Todo{}, &domain.SubTask{}))

	users := repository.NewGormUserRepository(db)
	todos := repository.NewGormTodoRepository(db)
	subtasks := repository.NewGormSubTaskRepository(db)
	categories := repository.NewGormCategoryRepository(db)

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return &testEnv{
		db:         db,
		tokens:     tokens,
		authSvc:    NewAuthService(users, tokens, bcrypt.MinCost),
		todoSvc:    NewTodoService(todos, subtasks, categories),
		categories: NewCategoryService(categories),
	}
}

func (e *testEnv) registerUser(t *testing.T, username string) *UserResponse {
	t.Helper()

	user, err := e.authSvc.Register(t.Context(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}
