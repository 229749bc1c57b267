package handler

import (
	"context"
	"errors"
	"net/http"

	bookingserrors "camrent/internal/bookings/errors"
	apperrors "camrent/pkg/errors"
	httputil "camrent/pkg/http"
	"camrent/pkg/logger"
	"camrent/pkg/model"
)

type conflictSummary struct {
	ID           string             `json:"id"`
	StartDate    model.Date         `json:"start_date"`
	EndDate      model.Date         `json:"end_date"`
	RentalStatus model.RentalStatus `json:"rental_status"`
}

// toAppError is the single translation point from domain errors to the
// transport error.
func toAppError(err error) *apperrors.AppError {
	var (
		appErr     *apperrors.AppError
		validation *bookingserrors.ValidationError
		notFound   *bookingserrors.NotFoundError
		conflict   *bookingserrors.ConflictError
		illegal    *bookingserrors.IllegalTransitionError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &validation):
		details := make(map[string]any, len(validation.Fields))
		for field, msg := range validation.Fields {
			details[field] = msg
		}
		return apperrors.Validation("Request validation failed", details)
	case errors.As(err, &notFound):
		return apperrors.NotFoundWithID(notFound.Resource, notFound.ID)
	case errors.As(err, &conflict):
		summaries := make([]conflictSummary, 0, len(conflict.Conflicts))
		for _, b := range conflict.Conflicts {
			summaries = append(summaries, conflictSummary{
				ID:           b.ID,
				StartDate:    b.StartDate,
				EndDate:      b.EndDate,
				RentalStatus: b.RentalStatus,
			})
		}
		return apperrors.BookingConflict("The requested dates overlap a committed booking", summaries)
	case errors.As(err, &illegal):
		return apperrors.IllegalTransition(illegal.From, illegal.Op)
	case errors.Is(err, bookingserrors.ErrInvalidRange):
		return apperrors.InvalidInput("end_date must not be before start_date")
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid ID format")
	case errors.Is(err, bookingserrors.ErrNoPricingConfigured):
		return apperrors.PricingConfiguration("The item has no pricing tiers configured", err)
	case errors.Is(err, bookingserrors.ErrNoTierForDuration):
		return apperrors.PricingConfiguration("No pricing tier covers the requested duration", err)
	case errors.Is(err, bookingserrors.ErrLockHeld), errors.Is(err, bookingserrors.ErrLockLost):
		return apperrors.Conflict("The item is being booked by another request. Please try again.")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("The request took too long")
	}
	return apperrors.Internal("An unexpected error occurred", err)
}

// writeError translates err, logs server-side failures and writes the
// response.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, handler string, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Error("Request failed", "handler", handler, "path", r.URL.Path, "error", err)
	} else {
		log.Debug("Request rejected", "handler", handler, "path", r.URL.Path, "code", appErr.Code, "error", err)
	}
	if writeErr := httputil.WriteError(w, appErr); writeErr != nil {
		log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func writeSuccess(w http.ResponseWriter, log *logger.Logger, handler string, status int, data any) {
	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: data}); err != nil {
		log.Error("failed to write response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}
