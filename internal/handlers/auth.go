package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/internal/services"
	pkgauth "github.com/marcusw/leadclaim/pkg/auth"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

// AuthHandler handles registration and login requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles staff registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		httpx.WriteValidationErrors(w, fieldErrors)
		return
	}

	authResp, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var policyErr *pkgauth.PasswordValidationError
		switch {
		case errors.Is(err, models.ErrConflict):
			httpx.WriteConflict(w, "User with this email already exists")
		case errors.As(err, &policyErr):
			errs := make([]httpx.FieldError, 0, len(policyErr.Errors))
			for _, msg := range policyErr.Errors {
				errs = append(errs, httpx.FieldError{Field: "password", Message: msg})
			}
			httpx.WriteValidationErrors(w, errs)
		default:
			httpx.WriteInternalError(w, "Internal server error")
		}
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, "User registered successfully", authResp)
}

// Login handles staff login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrors := ValidateRequest(req); fieldErrors != nil {
		httpx.WriteValidationErrors(w, fieldErrors)
		return
	}

	authResp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			httpx.WriteUnauthorized(w, "Invalid email or password")
			return
		}
		httpx.WriteInternalError(w, "Internal server error")
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Login successful", authResp)
}
