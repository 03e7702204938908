package attendancehandler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/attendance"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
		r.Get("/my", h.handleMyRecords)
		r.Get("/my/stats", h.handleMyStats)
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

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.CheckIn(r.Context(), user.EmployeeID, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			api.Fail(w, http.StatusConflict, "already_checked_in", "already checked in today", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "check_in_failed", "failed to check in", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.CheckOut(r.Context(), user.EmployeeID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNotCheckedIn):
			api.Fail(w, http.StatusConflict, "not_checked_in", "no open check-in today", middleware.GetRequestID(r.Context()))
		case errors.Is(err, attendance.ErrAlreadyCheckedOut):
			api.Fail(w, http.StatusConflict, "already_checked_out", "already checked out today", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "check_out_failed", "failed to check out", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func monthYear(r *http.Request) (int, int, bool) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, false
		}
		month = parsed
	}
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		year = parsed
	}
	return month, year, true
}

func (h *Handler) handleMyRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	month, year, ok := monthYear(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month or year out of range", middleware.GetRequestID(r.Context()))
		return
	}
	records, err := h.Service.MonthlyRecords(r.Context(), user.EmployeeID, month, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyStats(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	month, year, ok := monthYear(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month or year out of range", middleware.GetRequestID(r.Context()))
		return
	}
	stats, err := h.Service.MonthlyStats(r.Context(), user.EmployeeID, month, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_stats_failed", "failed to load attendance stats", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}
