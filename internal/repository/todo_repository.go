package repository

import (
	"context"
	"time"

	"todo-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TodoFilter narrows FindAll results. Zero-valued fields are ignored.
type TodoFilter struct {
	Search      string
	Priority    domain.Priority
	CategoryID  *uint
	IsCompleted *bool
	DueDate     *time.Time
}

// TodoRepository defines the data operations for todos. Every query is
// scoped to the owning user.
type TodoRepository interface {
	// Create inserts the todo and any inline subtasks in one transaction,
	// setting the cached progress from the subtask set.
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, userID, id uint) (*domain.Todo, error)
	FindAll(ctx context.Context, userID uint, filter TodoFilter) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	// Delete removes the todo together with its subtasks and descendant
	// todos (and their subtasks) in one transaction.
	Delete(ctx context.Context, userID, id uint) error
	// BatchDelete removes the given todos owned by userID, cascading like
	// Delete, and reports how many top-level todos were removed.
	BatchDelete(ctx context.Context, userID uint, ids []uint) (int64, error)
	// BatchUpdate applies the column updates to the given todos owned by
	// userID and reports how many rows changed.
	BatchUpdate(ctx context.Context, userID uint, ids []uint, updates map[string]any) (int64, error)
}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo.Progress = domain.Progress(todo.SubTasks)
		return tx.Create(todo).Error
	})
}

func (r *gormTodoRepository) FindByID(ctx context.Context, userID, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Preload("SubTasks").
		Preload("Category").
		Where("user_id = ?", userID).
		First(&todo, id).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *gormTodoRepository) FindAll(ctx context.Context, userID uint, filter TodoFilter) ([]domain.Todo, error) {
	query := r.db.WithContext(ctx).
		Preload("SubTasks").
		Preload("Category").
		Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(title LIKE ? OR description LIKE ?)", pattern, pattern)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filter.IsCompleted)
	}
	if filter.DueDate != nil {
		query = query.Where("due_date = ?", *filter.DueDate)
	}

	var todos []domain.Todo
	if err := query.Order("created_at DESC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(todo).Error
}

func (r *gormTodoRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var todo domain.Todo
		if err := tx.Where("user_id = ?", userID).First(&todo, id).Error; err != nil {
			return err
		}
		return deleteTodoTree(tx, userID, []uint{id})
	})
}

func (r *gormTodoRepository) BatchDelete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []uint
		if err := tx.Model(&domain.Todo{}).
			Where("user_id = ? AND id IN ?", userID, ids).
			Pluck("id", &owned).Error; err != nil {
			return err
		}
		deleted = int64(len(owned))
		if deleted == 0 {
			return nil
		}
		return deleteTodoTree(tx, userID, owned)
	})
	return deleted, err
}

func (r *gormTodoRepository) BatchUpdate(ctx context.Context, userID uint, ids []uint, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Todo{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// deleteTodoTree removes the given todos, their subtasks and all descendant
// todos owned by userID. The schema declares no ON DELETE actions; the
// cascade is explicit here so it behaves identically on every backend. The
// walk never crosses an ownership boundary, so a row another user managed to
// point at one of the roots is left alone.
func deleteTodoTree(tx *gorm.DB, userID uint, roots []uint) error {
	all := append([]uint(nil), roots...)
	frontier := roots
	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&domain.Todo{}).
			Where("parent_id IN ? AND user_id = ?", frontier, userID).
			Pluck("id", &children).Error; err != nil {
			return err
		}
		all = append(all, children...)
		frontier = children
	}

	if err := tx.Where("todo_id IN ?", all).Delete(&domain.SubTask{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", all).Delete(&domain.Todo{}).Error
}
