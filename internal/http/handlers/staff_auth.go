package handlers

import (
	"net/http"
	"strings"

	"trattoria-order-service/internal/auth"
	"trattoria-order-service/internal/middleware"
	"trattoria-order-service/pkg/response"

	"go.uber.org/zap"
)

type staffLoginRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	if !h.Config.StaffAuthEnabled() {
		response.Error(w, http.StatusNotFound, "STAFF_AUTH_DISABLED", "Staff login is not enabled")
		return
	}

	var req staffLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Role must be kitchen, delivery or admin")
		return
	}
	if err := auth.CheckPassword(h.Config.StaffPasswordHash, req.Password); err != nil {
		h.Logger.Info("staff login rejected", zap.String("role", string(role)))
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	token, expires, err := auth.IssueStaffToken(h.Config.StaffJWTSecret, role, strings.TrimSpace(req.Name), h.Config.StaffJWTExpiry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.StaffTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !h.Config.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	response.Success(w, map[string]any{
		"accessToken": token,
		"role":        role,
		"expiresAt":   expires,
	})
}
