package http

import (
	"net/http"
	"strconv"
	"time"

	"camrent/pkg/config"
	apperrors "camrent/pkg/errors"
	"camrent/pkg/model"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate reads a required date query parameter. Timestamps are mapped to
// the calendar day they fall on in loc.
func ExtractDate(r *http.Request, name string, loc *time.Location) (model.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return model.Date{}, apperrors.InvalidInput("missing " + name + " parameter")
	}
	d, err := model.ParseDateIn(raw, loc)
	if err != nil {
		return model.Date{}, apperrors.InvalidInput("invalid " + name + " parameter, expected YYYY-MM-DD: " + raw)
	}
	return d, nil
}

// ParseBodyDate converts a date field from a request body.
func ParseBodyDate(field, raw string, loc *time.Location) (model.Date, error) {
	if raw == "" {
		return model.Date{}, apperrors.Validation("missing "+field, map[string]any{"field": field})
	}
	d, err := model.ParseDateIn(raw, loc)
	if err != nil {
		return model.Date{}, apperrors.InvalidInput("invalid " + field + ", expected YYYY-MM-DD: " + raw)
	}
	return d, nil
}
