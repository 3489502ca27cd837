package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domain "usermgmt/backend/internal/domain/user"
)

// envelope is the fixed response shape shared by every endpoint.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, status int, count int, data any) {
	writeJSON(w, status, envelope{Success: true, Count: &count, Data: data})
}

func writeError(w http.ResponseWriter, status int, category, message string) {
	writeJSON(w, status, envelope{Success: false, Error: category, Message: message})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "method not allowed")
}

// writeDomainError maps the domain error taxonomy onto the HTTP envelope.
// Unrecognised errors become an opaque 500; internals leak only in
// development mode.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Error:   "Validation Error",
			Message: verr.Error(),
			Errors:  verr.Fields,
		})
	case errors.Is(err, domain.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "Bad Request", "User with this email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
	case errors.Is(err, domain.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Password is incorrect")
	case errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Token expired. Please login again.")
	case errors.Is(err, domain.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token. Please login again.")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Not Found", "User not found")
	default:
		message := "An unexpected error occurred"
		if s.development {
			message = err.Error()
		}
		writeError(w, http.StatusInternalServerError, "Server Error", message)
	}
}
