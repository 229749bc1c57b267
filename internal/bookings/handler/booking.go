package handler

import (
	"net/http"
	"time"

	"camrent/internal/bookings/lifecycle"
	"camrent/internal/bookings/service"
	httputil "camrent/pkg/http"
	"camrent/pkg/logger"
	"camrent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// bookingTransitions maps the action segment of
// POST /api/v1/bookings/id/:id/<action> to the operation it runs.
var bookingTransitions = map[string]lifecycle.Operation{
	"approve":         lifecycle.OpApprove,
	"ready-to-ship":   lifecycle.OpMarkReadyToShip,
	"in-transit":      lifecycle.OpMarkInTransitToCustomer,
	"delivered":       lifecycle.OpConfirmDelivered,
	"activate":        lifecycle.OpActivate,
	"schedule-return": lifecycle.OpScheduleReturn,
	"shipped-back":    lifecycle.OpConfirmShippedBack,
	"returned":        lifecycle.OpConfirmReturned,
	"cancel":          lifecycle.OpCancel,
	"admin-cancel":    lifecycle.OpAdminCancel,
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
	loc     *time.Location
}

func NewBookingHandler(service service.BookingService, log *logger.Logger, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{
		service: service,
		log:     log,
		loc:     loc,
	}
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body bookingBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, "Submit", err)
		return
	}
	req, err := body.toRequest(h.loc)
	if err != nil {
		writeError(w, r, h.log, "Submit", err)
		return
	}

	v, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.log, "Submit", err)
		return
	}
	writeSuccess(w, h.log, "Submit", http.StatusCreated, v)
}

func (h *BookingHandler) CreateStaffEntry(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body staffEntryBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, "CreateStaffEntry", err)
		return
	}
	base, err := body.toRequest(h.loc)
	if err != nil {
		writeError(w, r, h.log, "CreateStaffEntry", err)
		return
	}

	req := model.StaffEntryRequest{
		BookingRequest: base,
		RentalStatus:   body.RentalStatus,
		ContractRef:    body.ContractRef,
	}
	v, err := h.service.CreateStaffEntry(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.log, "CreateStaffEntry", err)
		return
	}
	writeSuccess(w, h.log, "CreateStaffEntry", http.StatusCreated, v)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	details, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, r, h.log, "GetByID", err)
		return
	}
	writeSuccess(w, h.log, "GetByID", http.StatusOK, details)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		writeError(w, r, h.log, "List", err)
		return
	}
	status := model.RentalStatus(r.URL.Query().Get("status"))

	views, total, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		writeError(w, r, h.log, "List", err)
		return
	}
	if err := httputil.WritePaginated(w, views, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) NeedsAction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		writeError(w, r, h.log, "NeedsAction", err)
		return
	}

	views, total, err := h.service.ListNeedingAction(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, h.log, "NeedsAction", err)
		return
	}
	if err := httputil.WritePaginated(w, views, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "NeedsAction", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) transition(op lifecycle.Operation) httprouter.Handle {
	name := "Transition:" + string(op)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		v, err := h.service.Transition(r.Context(), ps.ByName("id"), op)
		if err != nil {
			writeError(w, r, h.log, name, err)
			return
		}
		writeSuccess(w, h.log, name, http.StatusOK, v)
	}
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.RejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, "Reject", err)
		return
	}

	v, err := h.service.Reject(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		writeError(w, r, h.log, "Reject", err)
		return
	}
	writeSuccess(w, h.log, "Reject", http.StatusOK, v)
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body rescheduleBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, "Reschedule", err)
		return
	}
	start, end, err := parseRange(body.StartDate, body.EndDate, h.loc)
	if err != nil {
		writeError(w, r, h.log, "Reschedule", err)
		return
	}

	v, err := h.service.Reschedule(r.Context(), ps.ByName("id"), &model.RescheduleRequest{StartDate: start, EndDate: end})
	if err != nil {
		writeError(w, r, h.log, "Reschedule", err)
		return
	}
	writeSuccess(w, h.log, "Reschedule", http.StatusOK, v)
}

func (h *BookingHandler) RequestExtension(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body extensionBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, "RequestExtension", err)
		return
	}
	end, err := httputil.ParseBodyDate("requested_end_date", body.RequestedEndDate, h.loc)
	if err != nil {
		writeError(w, r, h.log, "RequestExtension", err)
		return
	}

	ext, err := h.service.RequestExtension(r.Context(), ps.ByName("id"), &model.ExtensionRequest{RequestedEndDate: end})
	if err != nil {
		writeError(w, r, h.log, "RequestExtension", err)
		return
	}
	writeSuccess(w, h.log, "RequestExtension", http.StatusCreated, ext)
}

func (h *BookingHandler) decideExtension(op lifecycle.Operation) httprouter.Handle {
	name := "Extension:" + string(op)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ext, err := h.service.DecideExtension(r.Context(), ps.ByName("id"), op)
		if err != nil {
			writeError(w, r, h.log, name, err)
			return
		}
		writeSuccess(w, h.log, name, http.StatusOK, ext)
	}
}

func (h *BookingHandler) ApplyExtension(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.service.ApplyExtension(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, r, h.log, "ApplyExtension", err)
		return
	}
	writeSuccess(w, h.log, "ApplyExtension", http.StatusOK, v)
}

func (h *BookingHandler) ListPayments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	payments, err := h.service.ListPayments(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, r, h.log, "ListPayments", err)
		return
	}
	writeSuccess(w, h.log, "ListPayments", http.StatusOK, payments)
}

func (h *BookingHandler) SubmitPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PaymentSubmission
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, "SubmitPayment", err)
		return
	}

	p, err := h.service.SubmitPayment(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		writeError(w, r, h.log, "SubmitPayment", err)
		return
	}
	writeSuccess(w, h.log, "SubmitPayment", http.StatusOK, p)
}

func (h *BookingHandler) decidePayment(op lifecycle.Operation) httprouter.Handle {
	name := "Payment:" + string(op)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		p, err := h.service.DecidePayment(r.Context(), ps.ByName("id"), op)
		if err != nil {
			writeError(w, r, h.log, name, err)
			return
		}
		writeSuccess(w, h.log, name, http.StatusOK, p)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Submit)
	router.GET("/api/v1/bookings", h.List)
	router.POST("/api/v1/bookings/staff", h.CreateStaffEntry)
	router.GET("/api/v1/bookings/needs-action", h.NeedsAction)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)

	for action, op := range bookingTransitions {
		router.POST("/api/v1/bookings/id/:id/"+action, h.transition(op))
	}
	router.POST("/api/v1/bookings/id/:id/reject", h.Reject)
	router.POST("/api/v1/bookings/id/:id/reschedule", h.Reschedule)

	router.POST("/api/v1/bookings/id/:id/extensions", h.RequestExtension)
	router.POST("/api/v1/extensions/id/:id/approve", h.decideExtension(lifecycle.OpApproveExtension))
	router.POST("/api/v1/extensions/id/:id/reject", h.decideExtension(lifecycle.OpRejectExtension))
	router.POST("/api/v1/extensions/id/:id/apply", h.ApplyExtension)

	router.GET("/api/v1/bookings/id/:id/payments", h.ListPayments)
	router.POST("/api/v1/payments/id/:id/submit", h.SubmitPayment)
	router.POST("/api/v1/payments/id/:id/verify", h.decidePayment(lifecycle.OpVerifyPayment))
	router.POST("/api/v1/payments/id/:id/reject", h.decidePayment(lifecycle.OpRejectPayment))
}
