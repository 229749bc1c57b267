package model

import "time"

type Payment struct {
	ID          string        `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID   string        `json:"booking_id" bson:"booking_id"`
	ExtensionID *string       `json:"extension_id,omitempty" bson:"extension_id"`
	AmountCents int64         `json:"amount_cents" bson:"amount_cents"`
	Status      PaymentStatus `json:"payment_status" bson:"payment_status"`
	ReceiptRef  string        `json:"receipt_ref,omitempty" bson:"receipt_ref,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// IsPrimary reports whether the payment covers the initial rental rather
// than an extension.
func (p *Payment) IsPrimary() bool {
	return p.ExtensionID == nil
}
