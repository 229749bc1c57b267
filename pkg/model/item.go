package model

import "time"

// PricingTier maps an inclusive range of rental days to a per-day price.
// A nil MaxDays means the tier has no upper bound.
type PricingTier struct {
	MinDays          int    `json:"min_days" bson:"min_days" yaml:"min_days" validate:"required,min=1"`
	MaxDays          *int   `json:"max_days" bson:"max_days" yaml:"max_days" validate:"omitempty,min=1"`
	PricePerDayCents int64  `json:"price_per_day_cents" bson:"price_per_day_cents" yaml:"price_per_day_cents" validate:"min=0"`
	Description      string `json:"description" bson:"description" yaml:"description" validate:"max=200"`
}

// Covers reports whether a rental of the given length falls in the tier.
func (t PricingTier) Covers(days int) bool {
	if days < t.MinDays {
		return false
	}
	return t.MaxDays == nil || days <= *t.MaxDays
}

type RentalItem struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" yaml:"id"`
	Name      string        `json:"name" bson:"name" yaml:"name" validate:"required,min=2,max=120"`
	Tiers     []PricingTier `json:"tiers" bson:"tiers" yaml:"tiers" validate:"required,min=1,dive"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" yaml:"-"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at" yaml:"-"`
}
