package model

import "time"

type EventType string

const (
	EventBookingSubmitted   EventType = "booking.submitted"
	EventBookingStaffEntry  EventType = "booking.staff_entered"
	EventBookingApproved    EventType = "booking.approved"
	EventBookingRejected    EventType = "booking.rejected"
	EventBookingShipping    EventType = "booking.shipping_changed"
	EventBookingActivated   EventType = "booking.activated"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingRescheduled EventType = "booking.rescheduled"
	EventBookingPurged      EventType = "booking.purged"

	EventPaymentSubmitted EventType = "payment.submitted"
	EventPaymentVerified  EventType = "payment.verified"
	EventPaymentRejected  EventType = "payment.rejected"

	EventExtensionRequested EventType = "extension.requested"
	EventExtensionApproved  EventType = "extension.approved"
	EventExtensionRejected  EventType = "extension.rejected"
	EventExtensionApplied   EventType = "extension.applied"
)

// BookingEvent is published after a state change has been committed.
// Status fields use the wire tokens so consumers can match on them.
type BookingEvent struct {
	Type           EventType       `json:"type"`
	BookingID      string          `json:"booking_id"`
	ItemID         string          `json:"item_id,omitempty"`
	RentalStatus   RentalStatus    `json:"rental_status,omitempty"`
	ShippingStatus ShippingStatus  `json:"shipping_status,omitempty"`
	PaymentID      string          `json:"payment_id,omitempty"`
	PaymentStatus  PaymentStatus   `json:"payment_status,omitempty"`
	ExtensionID    string          `json:"extension_id,omitempty"`
	ExtensionState ExtensionStatus `json:"extension_status,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
