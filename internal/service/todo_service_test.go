package service

import (
	"testing"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoService_CreateWithSubtasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	todo, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{
		Title: "plan trip",
		Subtasks: []CreateSubTaskRequest{
			{Title: "book flights"},
			{Title: "book hotel"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityMedium, todo.Priority, "priority defaults to medium")
	assert.Equal(t, 0, todo.Progress)
	assert.Len(t, todo.Subtasks, 2)
}

func TestTodoService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	_, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrValidation)

	bad := "15-06-2025"
	_, err = env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "x", DueDate: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTodoService_OwnershipIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	todo, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "private"})
	require.NoError(t, err)

	_, err = env.todoSvc.GetTodoByID(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.todoSvc.DeleteTodo(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoService_RejectsForeignParentAndCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	parent, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "parent"})
	require.NoError(t, err)
	category, err := env.categories.CreateCategory(ctx, alice.ID, CreateCategoryRequest{Name: "work"})
	require.NoError(t, err)

	_, err = env.todoSvc.CreateTodo(ctx, bob.ID, CreateTodoRequest{Title: "attached", ParentID: &parent.ID})
	assert.ErrorIs(t, err, ErrNotFound, "a foreign parent must not resolve")

	_, err = env.todoSvc.CreateTodo(ctx, bob.ID, CreateTodoRequest{Title: "labelled", CategoryID: &category.ID})
	assert.ErrorIs(t, err, ErrNotFound, "a foreign category must not resolve")

	mine, err := env.todoSvc.CreateTodo(ctx, bob.ID, CreateTodoRequest{Title: "mine"})
	require.NoError(t, err)

	_, err = env.todoSvc.UpdateTodo(ctx, bob.ID, mine.ID, UpdateTodoRequest{CategoryID: NullableUint{Set: true, Value: &category.ID}})
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.todoSvc.BatchUpdateTodos(ctx, bob.ID, []uint{mine.ID}, UpdateTodoRequest{CategoryID: NullableUint{Set: true, Value: &category.ID}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoService_UpdateDetachesCategoryOnNull(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	category, err := env.categories.CreateCategory(ctx, alice.ID, CreateCategoryRequest{Name: "home"})
	require.NoError(t, err)
	todo, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "categorized", CategoryID: &category.ID})
	require.NoError(t, err)
	require.NotNil(t, todo.CategoryID)

	// An absent category field leaves the assignment alone.
	title := "renamed"
	kept, err := env.todoSvc.UpdateTodo(ctx, alice.ID, todo.ID, UpdateTodoRequest{Title: &title})
	require.NoError(t, err)
	assert.NotNil(t, kept.CategoryID)

	detached, err := env.todoSvc.UpdateTodo(ctx, alice.ID, todo.ID, UpdateTodoRequest{CategoryID: NullableUint{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, detached.CategoryID)
}

func TestTodoService_SubtaskMutationsTrackProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	todo, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "with subtasks"})
	require.NoError(t, err)

	first, err := env.todoSvc.CreateSubTask(ctx, alice.ID, todo.ID, CreateSubTaskRequest{Title: "first"})
	require.NoError(t, err)
	second, err := env.todoSvc.CreateSubTask(ctx, alice.ID, todo.ID, CreateSubTaskRequest{Title: "second"})
	require.NoError(t, err)

	toggled, err := env.todoSvc.ToggleSubTask(ctx, alice.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	stored, err := env.todoSvc.GetTodoByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Progress)

	require.NoError(t, env.todoSvc.DeleteSubTask(ctx, alice.ID, second.ID))

	stored, err = env.todoSvc.GetTodoByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
}

func TestTodoService_SubtaskOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")

	todo, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "mine"})
	require.NoError(t, err)
	subtask, err := env.todoSvc.CreateSubTask(ctx, alice.ID, todo.ID, CreateSubTaskRequest{Title: "step"})
	require.NoError(t, err)

	_, err = env.todoSvc.ToggleSubTask(ctx, bob.ID, subtask.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.todoSvc.DeleteSubTask(ctx, bob.ID, subtask.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoService_Statistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	yesterday := "2000-01-01"
	future := "2999-12-31"

	_, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "done", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	_, err = env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "late", Priority: domain.PriorityMedium, DueDate: &yesterday})
	require.NoError(t, err)
	_, err = env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "upcoming", Priority: domain.PriorityLow, DueDate: &future})
	require.NoError(t, err)

	completed := true
	first, err := env.todoSvc.GetAllTodos(ctx, alice.ID, repository.TodoFilter{Search: "done"})
	require.NoError(t, err)
	require.Len(t, first, 1)
	_, err = env.todoSvc.UpdateTodo(ctx, alice.ID, first[0].ID, UpdateTodoRequest{IsCompleted: &completed})
	require.NoError(t, err)

	stats, err := env.todoSvc.GetStatistics(ctx, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 33, stats.CompletionRate)
	assert.Equal(t, PriorityStatsResponse{High: 1, Medium: 1, Low: 1}, stats.PriorityStats)
	assert.Equal(t, 1, stats.OverdueCount)
}

func TestTodoService_BatchOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	first, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "first"})
	require.NoError(t, err)
	second, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "second"})
	require.NoError(t, err)

	completed := true
	err = env.todoSvc.BatchUpdateTodos(ctx, alice.ID, []uint{first.ID, second.ID}, UpdateTodoRequest{IsCompleted: &completed})
	require.NoError(t, err)

	stats, err := env.todoSvc.GetStatistics(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Completed)

	err = env.todoSvc.BatchDeleteTodos(ctx, alice.ID, []uint{first.ID, second.ID})
	require.NoError(t, err)

	err = env.todoSvc.BatchDeleteTodos(ctx, alice.ID, []uint{first.ID})
	assert.ErrorIs(t, err, ErrNotFound, "nothing left to delete")
}

func TestCategoryService_DeleteDetaches(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice := env.registerUser(t, "alice")

	category, err := env.categories.CreateCategory(ctx, alice.ID, CreateCategoryRequest{Name: "work", Color: "#00ff00"})
	require.NoError(t, err)

	todo, err := env.todoSvc.CreateTodo(ctx, alice.ID, CreateTodoRequest{Title: "categorized", CategoryID: &category.ID})
	require.NoError(t, err)

	require.NoError(t, env.categories.DeleteCategory(ctx, alice.ID, category.ID))

	stored, err := env.todoSvc.GetTodoByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)
}
