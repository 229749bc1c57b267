package lifecycle

import bookingserrors "camrent/internal/bookings/errors"

func validationError(field, msg string) error {
	return &bookingserrors.ValidationError{Fields: map[string]string{field: msg}}
}
