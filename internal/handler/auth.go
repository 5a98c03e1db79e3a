package handler

import (
	"encoding/json"
	"net/http"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/model"
	"stockflow-pos-api/internal/service"
	"stockflow-pos-api/pkg/apierror"
	"stockflow-pos-api/pkg/response"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	tokenService *service.TokenService
	backend      backend.Backend
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(tokenService *service.TokenService, b backend.Backend) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
		backend:      b,
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	StoreName string `json:"store_name"`
	ExpiresIn int    `json:"expires_in"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Email == "" {
		response.Error(w, apierror.BadRequest("email is required"))
		return
	}
	if req.APIKey == "" {
		response.Error(w, apierror.BadRequest("api_key is required"))
		return
	}

	profile, err := h.backend.ValidateLogin(r.Context(), req.Email, req.APIKey)
	if err != nil {
		response.Error(w, apierror.Unauthorized(err.Error()))
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), model.SessionData{
		TenantID:  profile.TenantID,
		Email:     req.Email,
		StoreName: profile.StoreName,
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to create session"))
		return
	}

	response.OK(w, LoginResponse{
		Token:     token,
		StoreName: profile.StoreName,
		ExpiresIn: int(service.SessionTTL.Seconds()),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Session header required"))
		return
	}

	if err := h.tokenService.RevokeToken(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke session"))
		return
	}

	response.OK(w, map[string]string{"status": "revoked"})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Session header required"))
		return
	}

	if err := h.tokenService.RefreshToken(r.Context(), token); err != nil {
		response.Error(w, apierror.Unauthorized(err.Error()))
		return
	}

	response.OK(w, map[string]interface{}{
		"status":     "refreshed",
		"expires_in": int(service.SessionTTL.Seconds()),
	})
}
