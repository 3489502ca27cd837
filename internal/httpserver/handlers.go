package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	authusecase "usermgmt/backend/internal/usecase/auth"
	userusecase "usermgmt/backend/internal/usecase/user"

	"github.com/go-chi/chi/v5"
)

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.authMiddleware).Get("/profile", s.handleProfile)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListUsers)
			r.Put("/profile", s.handleUpdateProfile)
			r.Delete("/account", s.handleDeleteAccount)
			r.Get("/{id}", s.handleGetUser)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found", "Route not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMethodNotAllowed(w)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "User Management System API",
		Data: map[string]any{
			"version": "1.0.0",
			"endpoints": map[string]string{
				"POST /api/auth/register":   "Register new user",
				"POST /api/auth/login":      "Login user",
				"GET /api/auth/profile":     "Get current user profile (protected)",
				"GET /api/users":            "Get all users (protected)",
				"GET /api/users/{id}":       "Get user by ID (protected)",
				"PUT /api/users/profile":    "Update profile (protected)",
				"DELETE /api/users/account": "Delete account (protected)",
			},
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      *int   `json:"age"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON payload")
		return
	}

	// A missing age must fail the range check, not default to zero.
	age := -1
	if payload.Age != nil {
		age = *payload.Age
	}

	user, token, err := s.authService.Register(r.Context(), authusecase.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Age:      age,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON payload")
		return
	}

	user, token, err := s.authService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	user, err := s.authService.Profile(r.Context(), callerID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeList(w, http.StatusOK, len(users), users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Invalid user id")
		return
	}

	user, err := s.userService.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var payload struct {
		Name            *string `json:"name"`
		Email           *string `json:"email"`
		Age             *int    `json:"age"`
		CurrentPassword string  `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON payload")
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), callerID, userusecase.UpdateInput{
		Name:            payload.Name,
		Email:           payload.Email,
		Age:             payload.Age,
		CurrentPassword: payload.CurrentPassword,
		NewPassword:     payload.NewPassword,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", user)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	callerID, ok := callerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON payload")
		return
	}

	identity, err := s.userService.DeleteAccount(r.Context(), callerID, payload.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Account deleted successfully", identity)
}
