package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/boutique/internal/auth"
)

// AuthHandlers gates the back office behind the single admin credential.
// User management belongs to the hosted backend; only this gate is local.
type AuthHandlers struct {
	jwtService        *auth.JWTService
	adminEmail        string
	adminPasswordHash string
}

func NewAuthHandlers(jwtService *auth.JWTService, adminEmail, adminPasswordHash string) *AuthHandlers {
	return &AuthHandlers{
		jwtService:        jwtService,
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Email != h.adminEmail || !auth.CheckPassword(req.Password, h.adminPasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateAccessToken(req.Email, "admin")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"expires_at":   expiresAt,
	})
}
