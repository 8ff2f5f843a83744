package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
	"todo-backend/internal/service"
)

func parseIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid ID provided")
		return 0, false
	}
	return uint(id), true
}

// todoFilterFromQuery builds the list filter from query parameters:
// search, priority, category_id, is_completed, due_date.
func todoFilterFromQuery(r *http.Request) (repository.TodoFilter, error) {
	filter := repository.TodoFilter{
		Search:   r.URL.Query().Get("search"),
		Priority: domain.Priority(r.URL.Query().Get("priority")),
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if raw := r.URL.Query().Get("is_completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.IsCompleted = &completed
	}
	if raw := r.URL.Query().Get("due_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return filter, err
		}
		filter.DueDate = &parsed
	}

	return filter, nil
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req service.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), user.ID, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create todo")
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) getAllTodosHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, err := todoFilterFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid filter parameters")
		return
	}

	todos, err := s.todoService.GetAllTodos(r.Context(), user.ID, filter)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := s.todoService.GetStatistics(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to compute statistics")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.GetTodoByID(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), user.ID, id, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := s.todoService.DeleteTodo(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, err, "Failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.ToggleTodo(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update todo")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) batchDeleteTodosHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req service.BatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.todoService.BatchDeleteTodos(r.Context(), user.ID, req.IDs); err != nil {
		respondWithServiceError(w, err, "Failed to delete todos")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) batchUpdateTodosHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req service.BatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Updates == nil {
		respondWithError(w, http.StatusBadRequest, "Request body must include updates")
		return
	}

	if err := s.todoService.BatchUpdateTodos(r.Context(), user.ID, req.IDs, *req.Updates); err != nil {
		respondWithServiceError(w, err, "Failed to update todos")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createSubTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	todoID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req service.CreateSubTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subtask, err := s.todoService.CreateSubTask(r.Context(), user.ID, todoID, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create subtask")
		return
	}

	respondWithJSON(w, http.StatusCreated, subtask)
}

func (s *Server) updateSubTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req service.UpdateSubTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	subtask, err := s.todoService.UpdateSubTask(r.Context(), user.ID, id, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update subtask")
		return
	}

	respondWithJSON(w, http.StatusOK, subtask)
}

func (s *Server) toggleSubTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	subtask, err := s.todoService.ToggleSubTask(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update subtask")
		return
	}

	respondWithJSON(w, http.StatusOK, subtask)
}

func (s *Server) deleteSubTaskHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := s.todoService.DeleteSubTask(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, err, "Failed to delete subtask")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
