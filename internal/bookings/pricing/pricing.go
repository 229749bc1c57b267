// Package pricing turns a rental range into a price using an item's
// duration tiers.
package pricing

import (
	"context"
	"fmt"
	"slices"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/pkg/model"
)

// Quote is the derived price of a rental. It is cached on the booking and
// recomputed whenever the dates or the item change.
type Quote struct {
	Days             int    `json:"days"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
	TotalPriceCents  int64  `json:"total_price_cents"`
	TierDescription  string `json:"tier_description,omitempty"`
}

// Apply copies the quote onto the booking.
func (q Quote) Apply(b *model.Booking) {
	b.RentalDays = q.Days
	b.PricePerDayCents = q.PricePerDayCents
	b.TotalPriceCents = q.TotalPriceCents
	b.TierDescription = q.TierDescription
}

type ItemReader interface {
	FindByID(ctx context.Context, id string) (*model.RentalItem, error)
}

type Resolver struct {
	items ItemReader
}

func NewResolver(items ItemReader) *Resolver {
	return &Resolver{items: items}
}

// ResolvePrice loads the item's tiers and prices the inclusive range
// [start, end]. It has no side effects.
func (r *Resolver) ResolvePrice(ctx context.Context, itemID string, start, end model.Date) (Quote, error) {
	rng, err := model.NewDateRange(start, end)
	if err != nil {
		return Quote{}, err
	}

	item, err := r.items.FindByID(ctx, itemID)
	if err != nil {
		return Quote{}, err
	}

	return Calculate(item.Tiers, rng)
}

// Calculate prices a range against a tier table the caller already holds.
func Calculate(tiers []model.PricingTier, rng model.DateRange) (Quote, error) {
	if err := rng.Validate(); err != nil {
		return Quote{}, err
	}
	if len(tiers) == 0 {
		return Quote{}, bookingserrors.ErrNoPricingConfigured
	}

	days := rng.Days()
	tier, ok := SelectTier(tiers, days)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %d days", bookingserrors.ErrNoTierForDuration, days)
	}

	return Quote{
		Days:             days,
		PricePerDayCents: tier.PricePerDayCents,
		TotalPriceCents:  int64(days) * tier.PricePerDayCents,
		TierDescription:  tier.Description,
	}, nil
}

// SelectTier returns the tier covering days. Tiers are scanned in MinDays
// order; there is no nearest-tier fallback.
func SelectTier(tiers []model.PricingTier, days int) (model.PricingTier, bool) {
	sorted := slices.Clone(tiers)
	slices.SortStableFunc(sorted, func(a, b model.PricingTier) int {
		return a.MinDays - b.MinDays
	})
	for _, t := range sorted {
		if t.Covers(days) {
			return t, true
		}
	}
	return model.PricingTier{}, false
}
