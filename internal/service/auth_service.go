package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"todo-backend/internal/auth"
	"todo-backend/internal/domain"
	"todo-backend/internal/repository"

	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial profile update. Pointer fields
// distinguish "omitted" from "set to empty".
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar"`
}

// UserResponse is the public representation of a user. The credential
// never appears here.
type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

// AuthService handles registration, login and profile management.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID uint) (*UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserResponse, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
}

// NewAuthService creates a new instance of authService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int) AuthService {
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if req.Username == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	if err := s.ensureUsernameFree(ctx, req.Username); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		log.Printf("Error hashing password during registration: %v", err)
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Printf("Error creating user in repository: %v", err)
		return nil, errors.New("failed to register user")
	}

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("Error fetching user by email during login: %v", err)
		return nil, errors.New("failed to log in")
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), user.Email, user.Username)
	if err != nil {
		log.Printf("Error issuing token for user %d: %v", user.ID, err)
		return nil, errors.New("failed to log in")
	}

	return &LoginResponse{User: *toUserResponse(user), AccessToken: token}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Error fetching user %d: %v", userID, err)
		return nil, errors.New("failed to retrieve profile")
	}
	return toUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Error fetching user %d for update: %v", userID, err)
		return nil, errors.New("failed to update profile")
	}

	if req.Username != nil && *req.Username != user.Username {
		if *req.Username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrValidation)
		}
		if err := s.ensureUsernameFree(ctx, *req.Username); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		if *req.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
		if err := s.ensureEmailFree(ctx, *req.Email); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}

	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
		}
		hashed, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			log.Printf("Error hashing password during profile update: %v", err)
			return nil, errors.New("failed to update profile")
		}
		user.Password = hashed
	}

	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		return nil, errors.New("failed to update profile")
	}

	return toUserResponse(user), nil
}

func (s *authService) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return fmt.Errorf("username %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking username uniqueness: %v", err)
		return errors.New("failed to check username")
	}
	return nil
}

func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("email %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking email uniqueness: %v", err)
		return errors.New("failed to check email")
	}
	return nil
}

func toUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
