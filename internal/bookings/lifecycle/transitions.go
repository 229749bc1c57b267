package lifecycle

import (
	"slices"

	"camrent/pkg/model"
)

type Operation string

const (
	OpApprove                 Operation = "approve"
	OpReject                  Operation = "reject"
	OpMarkReadyToShip         Operation = "mark_ready_to_ship"
	OpMarkInTransitToCustomer Operation = "mark_in_transit_to_customer"
	OpConfirmDelivered        Operation = "confirm_delivered"
	OpActivate                Operation = "activate"
	OpScheduleReturn          Operation = "schedule_return"
	OpConfirmShippedBack      Operation = "confirm_shipped_back"
	OpConfirmReturned         Operation = "confirm_returned"
	OpCancel                  Operation = "cancel"
	OpAdminCancel             Operation = "admin_cancel"
	OpReschedule              Operation = "reschedule"
	OpRequestExtension        Operation = "request_extension"
	OpApplyExtension          Operation = "apply_extension"

	OpApproveExtension Operation = "approve_extension"
	OpRejectExtension  Operation = "reject_extension"
	OpSubmitPayment    Operation = "submit_payment"
	OpVerifyPayment    Operation = "verify_payment"
	OpRejectPayment    Operation = "reject_payment"
)

// transition is one row of the booking state machine. apply is nil for
// operations whose effect needs more than the booking itself.
type transition struct {
	guard           func(b *model.Booking) bool
	apply           func(b *model.Booking)
	checksConflicts bool
}

func rentalIs(statuses ...model.RentalStatus) func(*model.Booking) bool {
	return func(b *model.Booking) bool {
		return slices.Contains(statuses, b.RentalStatus)
	}
}

func shippingIs(statuses ...model.ShippingStatus) func(*model.Booking) bool {
	return func(b *model.Booking) bool {
		return slices.Contains(statuses, b.ShippingStatus.Normalize())
	}
}

func both(a, b func(*model.Booking) bool) func(*model.Booking) bool {
	return func(bk *model.Booking) bool { return a(bk) && b(bk) }
}

func setShipping(s model.ShippingStatus) func(*model.Booking) {
	return func(b *model.Booking) { b.ShippingStatus = s }
}

func setRental(s model.RentalStatus) func(*model.Booking) {
	return func(b *model.Booking) { b.RentalStatus = s }
}

// shippingUnderway lists the states where the item is out of the shop, so
// a customer can no longer back out.
var shippingUnderway = []model.ShippingStatus{
	model.ShippingInTransitToUser,
	model.ShippingDelivered,
	model.ShippingReturnScheduled,
	model.ShippingInTransitToOwner,
}

var transitions = map[Operation]transition{
	OpApprove: {
		guard:           rentalIs(model.RentalPending),
		apply:           setRental(model.RentalConfirmed),
		checksConflicts: true,
	},
	OpReject: {
		guard: rentalIs(model.RentalPending),
	},
	OpMarkReadyToShip: {
		guard: both(rentalIs(model.RentalConfirmed), shippingIs(model.ShippingNone, model.ShippingReadyToShip)),
		apply: setShipping(model.ShippingReadyToShip),
	},
	OpMarkInTransitToCustomer: {
		guard: both(rentalIs(model.RentalConfirmed), shippingIs(model.ShippingReadyToShip)),
		apply: setShipping(model.ShippingInTransitToUser),
	},
	OpConfirmDelivered: {
		guard: shippingIs(model.ShippingInTransitToUser),
		apply: setShipping(model.ShippingDelivered),
	},
	OpActivate: {
		guard:           both(rentalIs(model.RentalConfirmed), shippingIs(model.ShippingDelivered)),
		apply:           setRental(model.RentalActive),
		checksConflicts: true,
	},
	OpScheduleReturn: {
		guard: rentalIs(model.RentalActive),
		apply: setShipping(model.ShippingReturnScheduled),
	},
	OpConfirmShippedBack: {
		guard: shippingIs(model.ShippingReturnScheduled),
		apply: setShipping(model.ShippingInTransitToOwner),
	},
	OpConfirmReturned: {
		guard: shippingIs(model.ShippingInTransitToOwner),
		apply: func(b *model.Booking) {
			b.ShippingStatus = model.ShippingReturned
			b.RentalStatus = model.RentalCompleted
		},
	},
	OpCancel: {
		guard: func(b *model.Booking) bool {
			if b.RentalStatus == model.RentalPending {
				return true
			}
			return b.RentalStatus == model.RentalConfirmed &&
				!slices.Contains(shippingUnderway, b.ShippingStatus.Normalize())
		},
		apply: setRental(model.RentalCancelled),
	},
	OpAdminCancel: {
		guard: func(b *model.Booking) bool { return !b.RentalStatus.IsTerminal() },
		apply: setRental(model.RentalCancelled),
	},
	OpReschedule: {
		guard: func(b *model.Booking) bool {
			return b.RentalStatus == model.RentalPending ||
				(b.RentalStatus == model.RentalConfirmed &&
					shippingIs(model.ShippingNone, model.ShippingReadyToShip)(b))
		},
		checksConflicts: true,
	},
	OpRequestExtension: {
		guard: both(rentalIs(model.RentalConfirmed, model.RentalActive), shippingIs(model.ShippingDelivered)),
	},
	OpApplyExtension: {
		guard:           rentalIs(model.RentalConfirmed, model.RentalActive),
		checksConflicts: true,
	},
}

// Allowed reports whether op may run on b in its current state.
func Allowed(op Operation, b *model.Booking) bool {
	t, ok := transitions[op]
	if !ok || t.guard == nil {
		return false
	}
	return t.guard(b)
}

// AllowedOperations lists the booking operations legal from b's state, in
// a stable order. Handy for clients deciding which buttons to show.
func AllowedOperations(b *model.Booking) []Operation {
	ops := make([]Operation, 0, len(transitions))
	for op, t := range transitions {
		if t.guard(b) {
			ops = append(ops, op)
		}
	}
	slices.Sort(ops)
	return ops
}
