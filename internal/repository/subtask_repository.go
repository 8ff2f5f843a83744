package repository

import (
	"context"

	"todo-backend/internal/domain"

	"gorm.io/gorm"
)

// SubTaskRepository defines the data operations for subtasks. Every
// mutation refreshes the parent todo's cached progress inside the same
// transaction, so a concurrent reader never observes a stale value.
type SubTaskRepository interface {
	Create(ctx context.Context, subtask *domain.SubTask) error
	FindByID(ctx context.Context, id uint) (*domain.SubTask, error)
	ListForTodo(ctx context.Context, todoID uint) ([]domain.SubTask, error)
	Update(ctx context.Context, subtask *domain.SubTask) error
	Delete(ctx context.Context, id uint) error
}

type gormSubTaskRepository struct {
	db *gorm.DB
}

// NewGormSubTaskRepository creates a new GORM subtask repository.
func NewGormSubTaskRepository(db *gorm.DB) SubTaskRepository {
	return &gormSubTaskRepository{db: db}
}

func (r *gormSubTaskRepository) Create(ctx context.Context, subtask *domain.SubTask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subtask).Error; err != nil {
			return err
		}
		return refreshProgress(tx, subtask.TodoID)
	})
}

func (r *gormSubTaskRepository) FindByID(ctx context.Context, id uint) (*domain.SubTask, error) {
	var subtask domain.SubTask
	if err := r.db.WithContext(ctx).First(&subtask, id).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *gormSubTaskRepository) ListForTodo(ctx context.Context, todoID uint) ([]domain.SubTask, error) {
	var subtasks []domain.SubTask
	err := r.db.WithContext(ctx).
		Where("todo_id = ?", todoID).
		Order("created_at ASC").
		Find(&subtasks).Error
	if err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (r *gormSubTaskRepository) Update(ctx context.Context, subtask *domain.SubTask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(subtask).Error; err != nil {
			return err
		}
		return refreshProgress(tx, subtask.TodoID)
	})
}

func (r *gormSubTaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subtask domain.SubTask
		if err := tx.First(&subtask, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.SubTask{}, id).Error; err != nil {
			return err
		}
		return refreshProgress(tx, subtask.TodoID)
	})
}

// refreshProgress recomputes the parent todo's progress from its current
// subtask set within the caller's transaction.
func refreshProgress(tx *gorm.DB, todoID uint) error {
	var subtasks []domain.SubTask
	if err := tx.Where("todo_id = ?", todoID).Find(&subtasks).Error; err != nil {
		return err
	}
	return tx.Model(&domain.Todo{}).
		Where("id = ?", todoID).
		Update("progress", domain.Progress(subtasks)).Error
}
