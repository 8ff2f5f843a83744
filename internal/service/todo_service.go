package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"

	"gorm.io/gorm"
)

// dueDateLayout is the wire format for due dates; the time-of-day
// component is not part of the API.
const dueDateLayout = "2006-01-02"

// CreateTodoRequest holds the data needed to create a new todo. Subtasks
// may be created inline; the todo's progress is derived from them.
type CreateTodoRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    domain.Priority        `json:"priority"`
	DueDate     *string                `json:"due_date"`
	HasReminder bool                   `json:"has_reminder"`
	CategoryID  *uint                  `json:"category_id"`
	ParentID    *uint                  `json:"parent_id"`
	Subtasks    []CreateSubTaskRequest `json:"subtasks"`
}

// NullableUint is a JSON field that distinguishes an absent key from an
// explicit null. Decoding null yields Set true with a nil Value.
type NullableUint struct {
	Set   bool
	Value *uint
}

func (n *NullableUint) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// UpdateTodoRequest holds a partial update. Pointers distinguish a field
// being omitted from being set to its zero value; the category takes a
// NullableUint so an explicit null detaches it.
type UpdateTodoRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	IsCompleted *bool            `json:"is_completed"`
	Priority    *domain.Priority `json:"priority"`
	DueDate     *string          `json:"due_date"`
	HasReminder *bool            `json:"has_reminder"`
	CategoryID  NullableUint     `json:"category_id"`
}

type BatchRequest struct {
	IDs     []uint             `json:"ids"`
	Updates *UpdateTodoRequest `json:"updates,omitempty"`
}

type CreateSubTaskRequest struct {
	Title string `json:"title"`
}

type UpdateSubTaskRequest struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"is_completed"`
}

type SubTaskResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
	TodoID      uint   `json:"todo_id"`
	CreatedAt   string `json:"created_at"`
}

// TodoResponse is the standard representation of a todo returned by the
// service.
type TodoResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsCompleted bool              `json:"is_completed"`
	Priority    domain.Priority   `json:"priority"`
	DueDate     *string           `json:"due_date"`
	HasReminder bool              `json:"has_reminder"`
	UserID      uint              `json:"user_id"`
	CategoryID  *uint             `json:"category_id"`
	ParentID    *uint             `json:"parent_id"`
	Progress    int               `json:"progress"`
	Subtasks    []SubTaskResponse `json:"subtasks"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type PriorityStatsResponse struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type StatisticsResponse struct {
	Total          int                   `json:"total"`
	Completed      int                   `json:"completed"`
	Pending        int                   `json:"pending"`
	CompletionRate int                   `json:"completion_rate"`
	PriorityStats  PriorityStatsResponse `json:"priority_stats"`
	OverdueCount   int                   `json:"overdue_count"`
}

// TodoService defines the operations for managing todos and their
// subtasks. Every operation is scoped to the user resolved by the auth
// middleware; there is no ambient current user.
type TodoService interface {
	CreateTodo(ctx context.Context, userID uint, req CreateTodoRequest) (*TodoResponse, error)
	GetTodoByID(ctx context.Context, userID, id uint) (*TodoResponse, error)
	GetAllTodos(ctx context.Context, userID uint, filter repository.TodoFilter) ([]TodoResponse, error)
	UpdateTodo(ctx context.Context, userID, id uint, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, userID, id uint) error
	ToggleTodo(ctx context.Context, userID, id uint) (*TodoResponse, error)
	BatchDeleteTodos(ctx context.Context, userID uint, ids []uint) error
	BatchUpdateTodos(ctx context.Context, userID uint, ids []uint, req UpdateTodoRequest) error
	GetStatistics(ctx context.Context, userID uint) (*StatisticsResponse, error)

	CreateSubTask(ctx context.Context, userID, todoID uint, req CreateSubTaskRequest) (*SubTaskResponse, error)
	UpdateSubTask(ctx context.Context, userID, id uint, req UpdateSubTaskRequest) (*SubTaskResponse, error)
	ToggleSubTask(ctx context.Context, userID, id uint) (*SubTaskResponse, error)
	DeleteSubTask(ctx context.Context, userID, id uint) error
}

type todoService struct {
	todos      repository.TodoRepository
	subtasks   repository.SubTaskRepository
	categories repository.CategoryRepository
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(todos repository.TodoRepository, subtasks repository.SubTaskRepository, categories repository.CategoryRepository) TodoService {
	return &todoService{
		todos:      todos,
		subtasks:   subtasks,
		categories: categories,
	}
}

func (s *todoService) CreateTodo(ctx context.Context, userID uint, req CreateTodoRequest) (*TodoResponse, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	// A parent or category reference must resolve within the caller's own
	// data; a foreign row is reported as not found.
	if req.ParentID != nil {
		if _, err := s.findOwnedTodo(ctx, userID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.findOwnedCategory(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	todo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     dueDate,
		HasReminder: req.HasReminder,
		UserID:      userID,
		CategoryID:  req.CategoryID,
		ParentID:    req.ParentID,
	}
	for _, st := range req.Subtasks {
		if st.Title == "" {
			return nil, fmt.Errorf("%w: subtask title cannot be empty", ErrValidation)
		}
		todo.SubTasks = append(todo.SubTasks, domain.SubTask{Title: st.Title})
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		log.Printf("Error creating todo in repository: %v", err)
		return nil, errors.New("failed to create todo item")
	}

	return toTodoResponse(todo), nil
}

func (s *todoService) GetTodoByID(ctx context.Context, userID, id uint) (*TodoResponse, error) {
	todo, err := s.findOwnedTodo(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

func (s *todoService) GetAllTodos(ctx context.Context, userID uint, filter repository.TodoFilter) ([]TodoResponse, error) {
	todos, err := s.todos.FindAll(ctx, userID, filter)
	if err != nil {
		log.Printf("Error fetching todos for user %d: %v", userID, err)
		return nil, errors.New("failed to retrieve todo items")
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toTodoResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, userID, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	todo, err := s.findOwnedTodo(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := applyTodoUpdate(todo, req); err != nil {
		return nil, err
	}
	if req.CategoryID.Set && req.CategoryID.Value != nil {
		if err := s.findOwnedCategory(ctx, userID, *req.CategoryID.Value); err != nil {
			return nil, err
		}
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		log.Printf("Error updating todo %d in repository: %v", id, err)
		return nil, errors.New("failed to update todo item")
	}

	return toTodoResponse(todo), nil
}

func (s *todoService) DeleteTodo(ctx context.Context, userID, id uint) error {
	err := s.todos.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("todo %d %w", id, ErrNotFound)
		}
		log.Printf("Error deleting todo %d from repository: %v", id, err)
		return errors.New("failed to delete todo item")
	}
	return nil
}

func (s *todoService) ToggleTodo(ctx context.Context, userID, id uint) (*TodoResponse, error) {
	todo, err := s.findOwnedTodo(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	todo.IsCompleted = !todo.IsCompleted
	if err := s.todos.Update(ctx, todo); err != nil {
		log.Printf("Error toggling todo %d: %v", id, err)
		return nil, errors.New("failed to update todo item")
	}

	return toTodoResponse(todo), nil
}

func (s *todoService) BatchDeleteTodos(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids cannot be empty", ErrValidation)
	}

	deleted, err := s.todos.BatchDelete(ctx, userID, ids)
	if err != nil {
		log.Printf("Error batch-deleting todos for user %d: %v", userID, err)
		return errors.New("failed to delete todo items")
	}
	if deleted == 0 {
		return fmt.Errorf("no deletable todos %w", ErrNotFound)
	}
	return nil
}

func (s *todoService) BatchUpdateTodos(ctx context.Context, userID uint, ids []uint, req UpdateTodoRequest) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids cannot be empty", ErrValidation)
	}

	updates, err := todoUpdateColumns(req)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: no updates provided", ErrValidation)
	}
	if req.CategoryID.Set && req.CategoryID.Value != nil {
		if err := s.findOwnedCategory(ctx, userID, *req.CategoryID.Value); err != nil {
			return err
		}
	}

	updated, err := s.todos.BatchUpdate(ctx, userID, ids, updates)
	if err != nil {
		log.Printf("Error batch-updating todos for user %d: %v", userID, err)
		return errors.New("failed to update todo items")
	}
	if updated == 0 {
		return fmt.Errorf("no updatable todos %w", ErrNotFound)
	}
	return nil
}

func (s *todoService) GetStatistics(ctx context.Context, userID uint) (*StatisticsResponse, error) {
	todos, err := s.todos.FindAll(ctx, userID, repository.TodoFilter{})
	if err != nil {
		log.Printf("Error fetching todos for statistics, user %d: %v", userID, err)
		return nil, errors.New("failed to compute statistics")
	}

	stats := domain.ComputeStatistics(todos, time.Now())
	return &StatisticsResponse{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending,
		CompletionRate: stats.CompletionRate,
		PriorityStats: PriorityStatsResponse{
			High:   stats.PriorityStats.High,
			Medium: stats.PriorityStats.Medium,
			Low:    stats.PriorityStats.Low,
		},
		OverdueCount: stats.OverdueCount,
	}, nil
}

func (s *todoService) CreateSubTask(ctx context.Context, userID, todoID uint, req CreateSubTaskRequest) (*SubTaskResponse, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}

	if _, err := s.findOwnedTodo(ctx, userID, todoID); err != nil {
		return nil, err
	}

	subtask := &domain.SubTask{Title: req.Title, TodoID: todoID}
	if err := s.subtasks.Create(ctx, subtask); err != nil {
		log.Printf("Error creating subtask for todo %d: %v", todoID, err)
		return nil, errors.New("failed to create subtask")
	}

	return toSubTaskResponse(subtask), nil
}

func (s *todoService) UpdateSubTask(ctx context.Context, userID, id uint, req UpdateSubTaskRequest) (*SubTaskResponse, error) {
	subtask, err := s.findOwnedSubTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		subtask.Title = *req.Title
	}
	if req.IsCompleted != nil {
		subtask.IsCompleted = *req.IsCompleted
	}

	if err := s.subtasks.Update(ctx, subtask); err != nil {
		log.Printf("Error updating subtask %d: %v", id, err)
		return nil, errors.New("failed to update subtask")
	}

	return toSubTaskResponse(subtask), nil
}

func (s *todoService) ToggleSubTask(ctx context.Context, userID, id uint) (*SubTaskResponse, error) {
	subtask, err := s.findOwnedSubTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	subtask.IsCompleted = !subtask.IsCompleted
	if err := s.subtasks.Update(ctx, subtask); err != nil {
		log.Printf("Error toggling subtask %d: %v", id, err)
		return nil, errors.New("failed to update subtask")
	}

	return toSubTaskResponse(subtask), nil
}

func (s *todoService) DeleteSubTask(ctx context.Context, userID, id uint) error {
	if _, err := s.findOwnedSubTask(ctx, userID, id); err != nil {
		return err
	}

	if err := s.subtasks.Delete(ctx, id); err != nil {
		log.Printf("Error deleting subtask %d: %v", id, err)
		return errors.New("failed to delete subtask")
	}
	return nil
}

func (s *todoService) findOwnedTodo(ctx context.Context, userID, id uint) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d %w", id, ErrNotFound)
		}
		log.Printf("Error fetching todo %d from repository: %v", id, err)
		return nil, errors.New("failed to retrieve todo item")
	}
	return todo, nil
}

// findOwnedSubTask resolves a subtask and verifies that its parent todo
// belongs to userID. A foreign subtask is reported as not found.
func (s *todoService) findOwnedSubTask(ctx context.Context, userID, id uint) (*domain.SubTask, error) {
	subtask, err := s.subtasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subtask %d %w", id, ErrNotFound)
		}
		log.Printf("Error fetching subtask %d from repository: %v", id, err)
		return nil, errors.New("failed to retrieve subtask")
	}

	if _, err := s.todos.FindByID(ctx, userID, subtask.TodoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subtask %d %w", id, ErrNotFound)
		}
		log.Printf("Error verifying subtask %d ownership: %v", id, err)
		return nil, errors.New("failed to retrieve subtask")
	}

	return subtask, nil
}

// findOwnedCategory verifies that the category exists and belongs to
// userID. A foreign category is reported as not found.
func (s *todoService) findOwnedCategory(ctx context.Context, userID, id uint) error {
	if _, err := s.categories.FindByID(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %d %w", id, ErrNotFound)
		}
		log.Printf("Error fetching category %d from repository: %v", id, err)
		return errors.New("failed to retrieve category")
	}
	return nil
}

func applyTodoUpdate(todo *domain.Todo, req UpdateTodoRequest) error {
	if req.Title != nil {
		if *req.Title == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.IsCompleted != nil {
		todo.IsCompleted = *req.IsCompleted
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
		}
		todo.Priority = *req.Priority
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return err
		}
		todo.DueDate = dueDate
	}
	if req.HasReminder != nil {
		todo.HasReminder = *req.HasReminder
	}
	if req.CategoryID.Set {
		todo.CategoryID = req.CategoryID.Value
	}
	return nil
}

// todoUpdateColumns converts a partial update into column assignments for
// a batch UPDATE.
func todoUpdateColumns(req UpdateTodoRequest) (map[string]any, error) {
	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
		}
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}
	if req.HasReminder != nil {
		updates["has_reminder"] = *req.HasReminder
	}
	if req.CategoryID.Set {
		// A nil pointer reaches the driver as SQL NULL.
		updates["category_id"] = req.CategoryID.Value
	}
	return updates, nil
}

// parseDueDate interprets an optional "YYYY-MM-DD" string as a UTC date.
// An empty string clears the due date.
func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dueDateLayout, *raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: due_date must be formatted as YYYY-MM-DD", ErrValidation)
	}
	return &parsed, nil
}

func toTodoResponse(todo *domain.Todo) *TodoResponse {
	resp := &TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.IsCompleted,
		Priority:    todo.Priority,
		HasReminder: todo.HasReminder,
		UserID:      todo.UserID,
		CategoryID:  todo.CategoryID,
		ParentID:    todo.ParentID,
		Progress:    todo.Progress,
		Subtasks:    make([]SubTaskResponse, 0, len(todo.SubTasks)),
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}
	if todo.DueDate != nil {
		formatted := todo.DueDate.Format(dueDateLayout)
		resp.DueDate = &formatted
	}
	for i := range todo.SubTasks {
		resp.Subtasks = append(resp.Subtasks, *toSubTaskResponse(&todo.SubTasks[i]))
	}
	if todo.Category != nil {
		resp.Category = toCategoryResponse(todo.Category)
	}
	return resp
}

func toSubTaskResponse(subtask *domain.SubTask) *SubTaskResponse {
	return &SubTaskResponse{
		ID:          subtask.ID,
		Title:       subtask.Title,
		IsCompleted: subtask.IsCompleted,
		TodoID:      subtask.TodoID,
		CreatedAt:   subtask.CreatedAt.Format(time.RFC3339),
	}
}
