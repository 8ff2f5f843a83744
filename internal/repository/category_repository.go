package repository

import (
	"context"

	"todo-backend/internal/domain"

	"gorm.io/gorm"
)

// CategoryRepository defines the data operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, userID, id uint) (*domain.Category, error)
	FindAll(ctx context.Context, userID uint) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete removes the category and detaches its todos (category
	// reference set to NULL) in one transaction.
	Delete(ctx context.Context, userID, id uint) error
}

type gormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GORM category repository.
func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, userID, id uint) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *gormCategoryRepository) FindAll(ctx context.Context, userID uint) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *gormCategoryRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		if err := tx.Where("user_id = ?", userID).First(&category, id).Error; err != nil {
			return err
		}
		err := tx.Model(&domain.Todo{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&domain.Category{}, id).Error
	})
}
