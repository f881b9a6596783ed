package http

import (
	"encoding/json"
	"net/http"

	"perpusum-backend/internal/security"
	"perpusum-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
	tokens  security.TokenManager
}

func NewAuthHandler(authSvc service.AuthService, tokens security.TokenManager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	token, admin, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondFromError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Login berhasil", map[string]any{
		"token":   token,
		"adminId": admin.ID,
		"email":   admin.Email,
	})
}

// Verify validates the bearer token so the frontend can check a stored
// session before entering the admin pages.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		respondError(w, http.StatusUnauthorized, "Token tidak ditemukan")
		return
	}
	const bearerPrefix = "Bearer "
	if len(header) > len(bearerPrefix) && header[:len(bearerPrefix)] == bearerPrefix {
		header = header[len(bearerPrefix):]
	}

	claims, err := h.tokens.Validate(header)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Token tidak valid atau sudah expired")
		return
	}

	respondSuccess(w, http.StatusOK, "Token valid", map[string]any{
		"adminId": claims.AdminID,
		"email":   claims.Email,
	})
}
