package lifecycle

import "camrent/pkg/model"

// NeedsAction reports whether staff have to do something to move the
// booking forward. It is derived on every read and never stored.
func NeedsAction(b *model.Booking) bool {
	shipping := b.ShippingStatus.Normalize()
	switch {
	case b.RentalStatus == model.RentalPending:
		return true
	case b.RentalStatus == model.RentalConfirmed &&
		(shipping == model.ShippingNone || shipping == model.ShippingReadyToShip):
		return true
	case shipping == model.ShippingInTransitToOwner:
		return true
	}
	return false
}

type Step string

const (
	StepRequested Step = "requested"
	StepPreparing Step = "preparing"
	StepShipping  Step = "shipping"
	StepInUse     Step = "in_use"
	StepReturning Step = "returning"
	StepCompleted Step = "completed"
	StepClosed    Step = "closed"
)

var stepOrder = []Step{StepRequested, StepPreparing, StepShipping, StepInUse, StepReturning, StepCompleted}

// Index is the position of the step in the progress bar, or -1 for a
// closed booking.
func (s Step) Index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func CurrentStep(b *model.Booking) Step {
	switch b.RentalStatus {
	case model.RentalCancelled, model.RentalRejected:
		return StepClosed
	case model.RentalCompleted:
		return StepCompleted
	case model.RentalPending:
		return StepRequested
	}

	switch b.ShippingStatus.Normalize() {
	case model.ShippingInTransitToUser:
		return StepShipping
	case model.ShippingDelivered:
		return StepInUse
	case model.ShippingReturnScheduled, model.ShippingInTransitToOwner:
		return StepReturning
	case model.ShippingReturned:
		return StepCompleted
	}
	if b.RentalStatus == model.RentalActive {
		return StepInUse
	}
	return StepPreparing
}

// View decorates a booking with its derived fields for API responses.
type View struct {
	*model.Booking
	NeedsAction       bool        `json:"needs_action"`
	CurrentStep       Step        `json:"current_step"`
	AllowedOperations []Operation `json:"allowed_operations"`
}

func NewView(b *model.Booking) View {
	return View{
		Booking:           b,
		NeedsAction:       NeedsAction(b),
		CurrentStep:       CurrentStep(b),
		AllowedOperations: AllowedOperations(b),
	}
}

func NewViews(bookings []*model.Booking) []View {
	views := make([]View, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, NewView(b))
	}
	return views
}
