// Package conflict detects committed bookings that overlap a candidate
// rental range. Results are advisory: the caller must hold the item lock
// and a transaction for the answer to stay true until commit.
package conflict

import (
	"context"
	"slices"
	"strings"

	"camrent/pkg/model"
)

// BookingFinder returns committed bookings of an item whose range may
// overlap rng. Implementations may over-fetch; results are filtered again.
type BookingFinder interface {
	FindCommittedOverlapping(ctx context.Context, itemID string, rng model.DateRange) ([]*model.Booking, error)
}

type Resolver struct {
	bookings BookingFinder
}

func NewResolver(bookings BookingFinder) *Resolver {
	return &Resolver{bookings: bookings}
}

// FindConflicts lists committed bookings of itemID overlapping rng, ordered
// by start date then id. excludeID skips a booking being re-checked against
// itself; pass "" to skip nothing.
func (r *Resolver) FindConflicts(ctx context.Context, itemID string, rng model.DateRange, excludeID string) ([]*model.Booking, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	candidates, err := r.bookings.FindCommittedOverlapping(ctx, itemID, rng)
	if err != nil {
		return nil, err
	}

	return Filter(candidates, itemID, rng, excludeID), nil
}

func (r *Resolver) HasConflict(ctx context.Context, itemID string, rng model.DateRange, excludeID string) (bool, error) {
	conflicts, err := r.FindConflicts(ctx, itemID, rng, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// Filter applies the conflict rule to an in-memory snapshot.
func Filter(candidates []*model.Booking, itemID string, rng model.DateRange, excludeID string) []*model.Booking {
	out := make([]*model.Booking, 0)
	for _, b := range candidates {
		if b == nil || b.ItemID != itemID {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.RentalStatus.IsCommitted() {
			continue
		}
		if !Overlaps(b.Range(), rng) {
			continue
		}
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b *model.Booking) int {
		if c := a.StartDate.Time().Compare(b.StartDate.Time()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Overlaps treats both ranges as closed intervals, so a rental ending on
// day N collides with one starting on day N.
func Overlaps(a, b model.DateRange) bool {
	return a.Overlaps(b)
}
