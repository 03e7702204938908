package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/transport/http/api"
	"hrpay/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		officer := middleware.RequireRole(auth.CanRunPayroll)

		r.With(officer).Post("/runs", h.handleGenerate)
		r.With(officer).Get("/runs", h.handleListRuns)
		r.With(officer).Get("/runs/{runID}", h.handleGetRun)
		r.With(officer).Get("/runs/{runID}/payslips", h.handleListRunPayslips)
		r.With(officer).Post("/runs/{runID}/validate", h.handleValidate)
		r.With(officer).Post("/runs/{runID}/cancel", h.handleCancel)

		r.Get("/payslips/my", h.handleMyPayslips)
		r.Get("/payslips/{payslipID}", h.handleGetPayslip)
		r.Get("/payslips/{payslipID}/pdf", h.handlePayslipPDF)
	})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	run, err := h.Service.Generate(r.Context(), payload.Month, payload.Year, user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrInvalidPeriod):
			api.Fail(w, http.StatusBadRequest, "invalid_period", "month or year out of range", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrDuplicateRun):
			api.Fail(w, http.StatusConflict, "duplicate_run", "a payrun already exists for this period", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "payrun_failed", "failed to generate payrun", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.Service.ListPayruns(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payrun_list_failed", "failed to list payruns", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.Payrun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payrun not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payrun_get_failed", "failed to load payrun", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRunPayslips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.Service.PayslipsForRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, slips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	err := h.Service.Validate(r.Context(), chi.URLParam(r, "runID"), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrRunNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "payrun not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrAlreadyValidated):
			api.Fail(w, http.StatusConflict, "already_validated", "payrun is already validated", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "validate_failed", "failed to validate payrun", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": payroll.RunStatusDone}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Cancel(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrRunNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "payrun not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "only draft or computed payruns can be cancelled", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to cancel payrun", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": payroll.RunStatusCancelled}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyPayslips(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	slips, err := h.Service.EmployeePayslips(r.Context(), user.EmployeeID, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, slips, middleware.GetRequestID(r.Context()))
}

// loadPayslip fetches the payslip and enforces that employees only see their
// own; payroll staff see everything.
func (h *Handler) loadPayslip(w http.ResponseWriter, r *http.Request) (payroll.Payslip, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return payroll.Payslip{}, false
	}

	slip, err := h.Service.Payslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		if errors.Is(err, payroll.ErrPayslipNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", middleware.GetRequestID(r.Context()))
			return payroll.Payslip{}, false
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_get_failed", "failed to load payslip", middleware.GetRequestID(r.Context()))
		return payroll.Payslip{}, false
	}

	if !auth.CanRunPayroll(user.Role) && slip.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return payroll.Payslip{}, false
	}
	return slip, true
}

func (h *Handler) handleGetPayslip(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.loadPayslip(w, r)
	if !ok {
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.loadPayslip(w, r)
	if !ok {
		return
	}

	month := int(slip.PayPeriodStart.Month())
	year := slip.PayPeriodStart.Year()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=payslip-%04d-%02d.pdf", year, month))
	if err := payroll.RenderPayslipPDF(w, slip, month, year); err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
	}
}
