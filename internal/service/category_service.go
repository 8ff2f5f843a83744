package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"

	"gorm.io/gorm"
)

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

type CategoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	UserID    uint   `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

// CategoryService defines the operations for managing a user's categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, userID uint, req CreateCategoryRequest) (*CategoryResponse, error)
	GetCategoryByID(ctx context.Context, userID, id uint) (*CategoryResponse, error)
	GetAllCategories(ctx context.Context, userID uint) ([]CategoryResponse, error)
	UpdateCategory(ctx context.Context, userID, id uint, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, userID, id uint) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new instance of categoryService.
func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) CreateCategory(ctx context.Context, userID uint, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}

	category := &domain.Category{
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
		UserID: userID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		log.Printf("Error creating category in repository: %v", err)
		return nil, errors.New("failed to create category")
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, userID, id uint) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d %w", id, ErrNotFound)
		}
		log.Printf("Error fetching category %d from repository: %v", id, err)
		return nil, errors.New("failed to retrieve category")
	}
	return toCategoryResponse(category), nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, userID uint) ([]CategoryResponse, error) {
	categories, err := s.categories.FindAll(ctx, userID)
	if err != nil {
		log.Printf("Error fetching categories for user %d: %v", userID, err)
		return nil, errors.New("failed to retrieve categories")
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *toCategoryResponse(&categories[i]))
	}
	return responses, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID, id uint, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d %w", id, ErrNotFound)
		}
		log.Printf("Error fetching category %d from repository: %v", id, err)
		return nil, errors.New("failed to retrieve category")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		category.Name = *req.Name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := s.categories.Update(ctx, category); err != nil {
		log.Printf("Error updating category %d: %v", id, err)
		return nil, errors.New("failed to update category")
	}

	return toCategoryResponse(category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, userID, id uint) error {
	err := s.categories.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %d %w", id, ErrNotFound)
		}
		log.Printf("Error deleting category %d: %v", id, err)
		return errors.New("failed to delete category")
	}
	return nil
}

func toCategoryResponse(category *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		UserID:    category.UserID,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
	}
}
