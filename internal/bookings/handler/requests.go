package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "camrent/pkg/errors"
	httputil "camrent/pkg/http"
	"camrent/pkg/model"
)

// Request bodies carry dates as strings so that timestamps can be mapped to
// the booking timezone before they become calendar days.

type bookingBody struct {
	ItemID          string  `json:"item_id"`
	OwnerRef        *string `json:"owner_ref"`
	CustomerName    string  `json:"customer_name"`
	CustomerContact string  `json:"customer_contact"`
	CustomerEmail   string  `json:"customer_email"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Notes           string  `json:"notes"`
}

func (b bookingBody) toRequest(loc *time.Location) (model.BookingRequest, error) {
	start, end, err := parseRange(b.StartDate, b.EndDate, loc)
	if err != nil {
		return model.BookingRequest{}, err
	}
	return model.BookingRequest{
		ItemID:          b.ItemID,
		OwnerRef:        b.OwnerRef,
		CustomerName:    b.CustomerName,
		CustomerContact: b.CustomerContact,
		CustomerEmail:   b.CustomerEmail,
		StartDate:       start,
		EndDate:         end,
		Notes:           b.Notes,
	}, nil
}

type staffEntryBody struct {
	bookingBody
	RentalStatus model.RentalStatus `json:"rental_status"`
	ContractRef  string             `json:"contract_ref"`
}

type rescheduleBody struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type extensionBody struct {
	RequestedEndDate string `json:"requested_end_date"`
}

func parseRange(startRaw, endRaw string, loc *time.Location) (model.Date, model.Date, error) {
	start, err := httputil.ParseBodyDate("start_date", startRaw, loc)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	end, err := httputil.ParseBodyDate("end_date", endRaw, loc)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return start, end, nil
}

// decodeJSON reads a JSON body. An empty body decodes to the zero value.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.New(apperrors.CodeInvalidInput, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
	}
	return apperrors.InvalidInput("Invalid request body: " + err.Error())
}
