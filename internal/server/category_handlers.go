package server

import (
	"net/http"

	"todo-backend/internal/service"
)

func (s *Server) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req service.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categoryService.CreateCategory(r.Context(), user.ID, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create category")
		return
	}

	respondWithJSON(w, http.StatusCreated, category)
}

func (s *Server) getCategoryByIDHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	category, err := s.categoryService.GetCategoryByID(r.Context(), user.ID, id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve category")
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) getAllCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	categories, err := s.categoryService.GetAllCategories(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve categories")
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (s *Server) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req service.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categoryService.UpdateCategory(r.Context(), user.ID, id, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update category")
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := s.categoryService.DeleteCategory(r.Context(), user.ID, id); err != nil {
		respondWithServiceError(w, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
