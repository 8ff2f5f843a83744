package server

import (
	"net/http"

	"todo-backend/internal/domain"
	"todo-backend/internal/service"
)

// currentUser returns the identity resolved by RequireAuth. Handlers
// behind the middleware always have one; the guard covers misrouting.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthenticated")
		return nil, false
	}
	return user, true
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to register user")
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := s.authService.GetProfile(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve profile")
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := s.authService.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
