package model

import "time"

type Booking struct {
	ID      string  `json:"id,omitempty" bson:"_id,omitempty"`
	ItemID  string  `json:"item_id" bson:"item_id"`
	OwnerRef *string `json:"owner_ref,omitempty" bson:"owner_ref,omitempty"`

	// Walk-in customers have no account; staff record them by hand.
	CustomerName    string `json:"customer_name,omitempty" bson:"customer_name,omitempty"`
	CustomerContact string `json:"customer_contact,omitempty" bson:"customer_contact,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty" bson:"customer_email,omitempty"`

	StartDate Date `json:"start_date" bson:"start_date"`
	EndDate   Date `json:"end_date" bson:"end_date"`

	RentalStatus   RentalStatus   `json:"rental_status" bson:"rental_status"`
	ShippingStatus ShippingStatus `json:"shipping_status" bson:"shipping_status"`
	Origin         BookingOrigin  `json:"booking_origin" bson:"booking_origin"`

	RentalDays       int    `json:"rental_days" bson:"rental_days"`
	PricePerDayCents int64  `json:"price_per_day_cents" bson:"price_per_day_cents"`
	TotalPriceCents  int64  `json:"total_price_cents" bson:"total_price_cents"`
	TierDescription  string `json:"tier_description,omitempty" bson:"tier_description,omitempty"`

	RejectionReason string     `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	RejectionExpiry *time.Time `json:"rejection_expiry,omitempty" bson:"rejection_expiry,omitempty"`

	ContractRef string `json:"contract_ref,omitempty" bson:"contract_ref,omitempty"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Range returns the booked calendar days.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// State is a compact "rental/shipping" label used in diagnostics.
func (b *Booking) State() string {
	return string(b.RentalStatus) + "/" + b.ShippingStatus.String()
}

// Clone returns a copy safe to mutate without touching the original.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.OwnerRef != nil {
		ref := *b.OwnerRef
		c.OwnerRef = &ref
	}
	if b.RejectionExpiry != nil {
		exp := *b.RejectionExpiry
		c.RejectionExpiry = &exp
	}
	return &c
}
