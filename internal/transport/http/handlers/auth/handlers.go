package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.With(middleware.RequireRole(func(role string) bool { return role == auth.RoleAdmin })).
		Post("/auth/register", h.handleRegister)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	token, user, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token":      token,
		"role":       user.Role,
		"employeeId": user.EmployeeID,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		EmployeeID string `json:"employeeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "missing_fields", "email and password are required", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Role == "" {
		payload.Role = auth.RoleEmployee
	}

	user, err := h.Service.Register(r.Context(), payload.Email, payload.Password, payload.Role, payload.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": user.ID, "email": user.Email, "role": user.Role}, middleware.GetRequestID(r.Context()))
}
