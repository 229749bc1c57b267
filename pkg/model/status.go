package model

// The string values below are a wire contract shared with reporting and
// notification consumers. Do not rename them.

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalConfirmed RentalStatus = "confirmed"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
	RentalRejected  RentalStatus = "rejected"
)

var rentalStatuses = map[RentalStatus]struct{}{
	RentalPending: {}, RentalConfirmed: {}, RentalActive: {},
	RentalCompleted: {}, RentalCancelled: {}, RentalRejected: {},
}

func (s RentalStatus) IsValid() bool {
	_, ok := rentalStatuses[s]
	return ok
}

// IsCommitted reports whether a booking in this status blocks its dates.
func (s RentalStatus) IsCommitted() bool {
	return s == RentalConfirmed || s == RentalActive || s == RentalCompleted
}

// IsTerminal reports whether no further rental status change is expected.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalCompleted || s == RentalCancelled || s == RentalRejected
}

func (s RentalStatus) String() string { return string(s) }

// CommittedStatuses lists the statuses that participate in conflict checks.
func CommittedStatuses() []RentalStatus {
	return []RentalStatus{RentalConfirmed, RentalActive, RentalCompleted}
}

type ShippingStatus string

const (
	ShippingNone             ShippingStatus = "none"
	ShippingReadyToShip      ShippingStatus = "ready_to_ship"
	ShippingInTransitToUser  ShippingStatus = "in_transit_to_user"
	ShippingDelivered        ShippingStatus = "delivered"
	ShippingReturnScheduled  ShippingStatus = "return_scheduled"
	ShippingInTransitToOwner ShippingStatus = "in_transit_to_owner"
	ShippingReturned         ShippingStatus = "returned"
)

var shippingStatuses = map[ShippingStatus]struct{}{
	ShippingNone: {}, ShippingReadyToShip: {}, ShippingInTransitToUser: {},
	ShippingDelivered: {}, ShippingReturnScheduled: {}, ShippingInTransitToOwner: {},
	ShippingReturned: {},
}

// Normalize maps the legacy null/empty spelling to ShippingNone.
func (s ShippingStatus) Normalize() ShippingStatus {
	if s == "" {
		return ShippingNone
	}
	return s
}

func (s ShippingStatus) IsValid() bool {
	_, ok := shippingStatuses[s.Normalize()]
	return ok
}

func (s ShippingStatus) String() string { return string(s.Normalize()) }

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentVerified  PaymentStatus = "verified"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentSubmitted, PaymentRejected, PaymentVerified:
		return true
	}
	return false
}

type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

type BookingOrigin string

const (
	OriginCustomerSubmitted BookingOrigin = "customer_submitted"
	OriginStaffEntered      BookingOrigin = "staff_entered"
)
