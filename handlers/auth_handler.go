package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chathub-backend/models"
	"chathub-backend/repository"
	"chathub-backend/services"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(s *services.AuthService) *AuthHandler { return &AuthHandler{svc: s} }

var validate = validator.New()

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "Method not allowed", "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "Invalid JSON", "Bad request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		respondWithError(w, "Validation failed", "Username must be 3-20 characters and password at least 6", http.StatusBadRequest)
		return
	}
	if !isValidUsername(req.Username) {
		respondWithError(w, "Validation failed", "Username can only contain letters, numbers, underscore, and dash", http.StatusBadRequest)
		return
	}

	_, err := h.svc.Register(req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			respondWithError(w, "Registration failed", "Username already exists", http.StatusBadRequest)
			return
		}
		respondWithError(w, "Registration failed", "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    map[string]string{"message": "User registered successfully"},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "Method not allowed", "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "Invalid JSON", "Bad request format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, "Missing fields", "Username and password are required", http.StatusBadRequest)
		return
	}

	token, user, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		respondWithError(w, "Authentication failed", "Invalid username or password", http.StatusUnauthorized)
		return
	}

	respondWithSuccess(w, map[string]interface{}{
		"sessionId": token,
		"userId":    user.Identity,
		"username":  user.Username,
		"profile":   user,
	})
}

func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "Method not allowed", "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "Invalid JSON", "Bad request format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, "Missing fields", "Session ID is required", http.StatusBadRequest)
		return
	}

	identity, username, err := h.svc.ValidateSession(req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionExpired) {
			respondWithError(w, "Unauthorized", "Session expired", http.StatusUnauthorized)
			return
		}
		respondWithError(w, "Unauthorized", "Invalid session", http.StatusUnauthorized)
		return
	}

	respondWithSuccess(w, map[string]string{
		"userId":   identity,
		"username": username,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "Method not allowed", "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "Invalid JSON", "Bad request format", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, "Missing fields", "Session ID is required", http.StatusBadRequest)
		return
	}

	h.svc.Logout(req.SessionID)
	respondWithSuccess(w, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		respondWithError(w, "Missing parameter", "Username is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := h.svc.Profile(username)
		if err != nil {
			respondWithError(w, "Not found", "User not found", http.StatusNotFound)
			return
		}
		respondWithSuccess(w, user)

	case http.MethodPut:
		var upd models.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			respondWithError(w, "Invalid JSON", "Bad request format", http.StatusBadRequest)
			return
		}
		user, err := h.svc.UpdateProfile(username, upd)
		if err != nil {
			respondWithError(w, "Update failed", "User not found", http.StatusBadRequest)
			return
		}
		respondWithSuccess(w, user)

	default:
		respondWithError(w, "Method not allowed", "Use GET or PUT method", http.StatusMethodNotAllowed)
	}
}

// isValidUsername mirrors the registration charset rule: letters, digits,
// underscore, dash.
func isValidUsername(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

func respondWithError(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}

func respondWithSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    data,
	})
}
