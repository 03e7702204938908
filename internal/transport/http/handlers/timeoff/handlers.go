package timeoffhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/timeoff"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *timeoff.Service
}

func NewHandler(service *timeoff.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timeoff", func(r chi.Router) {
		approver := middleware.RequireRole(auth.CanDecideTimeOff)

		r.Get("/balance", h.handleBalance)
		r.Get("/availability", h.handleAvailability)
		r.Get("/requests/my", h.handleMyRequests)
		r.Post("/requests", h.handleCreate)
		r.Delete("/requests/{requestID}", h.handleDelete)

		r.With(approver).Get("/requests/pending", h.handleListPending)
		r.With(approver).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(approver).Post("/requests/{requestID}/reject", h.handleReject)
	})
}

func requireEmployee(w http.ResponseWriter, r *http.Request) (middleware.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return middleware.UserContext{}, false
	}
	return user, true
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	allocation, err := h.Service.Balance(r.Context(), user.EmployeeID)
	if err != nil {
		if errors.Is(err, timeoff.ErrNoAllocation) {
			api.Fail(w, http.StatusNotFound, "no_allocation", "no leave allocation configured", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "balance_failed", "failed to load leave balance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, allocation, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	start, err := parseDate(q.Get("start"))
	if err != nil {
		api.FailDetail(w, http.StatusBadRequest, "invalid_date", "dates must be YYYY-MM-DD", "start", middleware.GetRequestID(r.Context()))
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		api.FailDetail(w, http.StatusBadRequest, "invalid_date", "dates must be YYYY-MM-DD", "end", middleware.GetRequestID(r.Context()))
		return
	}

	check, err := h.Service.CheckAvailableBalance(r.Context(), user.EmployeeID, q.Get("type"), start, end)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrUnknownType):
			api.Fail(w, http.StatusBadRequest, "unknown_type", "unknown time off type", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end must not be before start", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrNoAllocation):
			api.Fail(w, http.StatusNotFound, "no_allocation", "no leave allocation configured", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "availability_failed", "failed to check availability", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, check, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	var payload struct {
		Type      string `json:"type"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	start, err := parseDate(payload.StartDate)
	if err != nil {
		api.FailDetail(w, http.StatusBadRequest, "invalid_date", "dates must be YYYY-MM-DD", "startDate", middleware.GetRequestID(r.Context()))
		return
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		api.FailDetail(w, http.StatusBadRequest, "invalid_date", "dates must be YYYY-MM-DD", "endDate", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), user.EmployeeID, payload.Type, start, end, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrUnknownType):
			api.Fail(w, http.StatusBadRequest, "unknown_type", "unknown time off type", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "range contains no working days", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrInsufficientBalance):
			api.Fail(w, http.StatusConflict, "insufficient_balance", "requested days exceed the remaining balance", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrNoAllocation):
			api.Fail(w, http.StatusConflict, "no_allocation", "no leave allocation configured", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "request_failed", "failed to create request", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	requests, err := h.Service.EmployeeRequests(r.Context(), user.EmployeeID, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	requests, err := h.Service.PendingRequests(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list pending requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	req, err := h.Service.Approve(r.Context(), chi.URLParam(r, "requestID"), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrAlreadyProcessed):
			api.Fail(w, http.StatusConflict, "already_processed", "request was already decided", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrInsufficientBalance):
			api.Fail(w, http.StatusConflict, "insufficient_balance", "employee has insufficient leave balance", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrNoAllocation):
			api.Fail(w, http.StatusConflict, "no_allocation", "employee has no leave allocation", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "approve_failed", "failed to approve request", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Reject(r.Context(), chi.URLParam(r, "requestID"), user.UserID, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, timeoff.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeoff.ErrAlreadyProcessed):
			api.Fail(w, http.StatusConflict, "already_processed", "request was already decided", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "reject_failed", "failed to reject request", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	err := h.Service.DeletePending(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID)
	if err != nil {
		if errors.Is(err, timeoff.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "no pending request to withdraw", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to withdraw request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
