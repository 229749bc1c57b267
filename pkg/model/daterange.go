package model

import "errors"

var ErrInvalidRange = errors.New("end date must not be before start date")

// DateRange is a closed interval of calendar days: both Start and End are
// rental days.
type DateRange struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

func NewDateRange(start, end Date) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days is the inclusive count of rental days.
func (r DateRange) Days() int {
	return r.Start.DaysUntil(r.End) + 1
}

// Overlaps uses closed-interval semantics: ranges that share a single day
// overlap, since the equipment cannot be in two places on that day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !other.Start.After(r.End) && !other.End.Before(r.Start)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
