package lifecycle

import (
	"testing"

	"camrent/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestNeedsAction(t *testing.T) {
	tests := []struct {
		rental   model.RentalStatus
		shipping model.ShippingStatus
		want     bool
	}{
		{model.RentalPending, model.ShippingNone, true},
		{model.RentalConfirmed, model.ShippingNone, true},
		{model.RentalConfirmed, "", true},
		{model.RentalConfirmed, model.ShippingReadyToShip, true},
		{model.RentalConfirmed, model.ShippingInTransitToUser, false},
		{model.RentalConfirmed, model.ShippingDelivered, false},
		{model.RentalActive, model.ShippingDelivered, false},
		{model.RentalActive, model.ShippingReturnScheduled, false},
		{model.RentalActive, model.ShippingInTransitToOwner, true},
		{model.RentalCompleted, model.ShippingReturned, false},
		{model.RentalCancelled, model.ShippingNone, false},
		{model.RentalRejected, model.ShippingNone, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.rental)+"/"+string(tt.shipping), func(t *testing.T) {
			b := &model.Booking{RentalStatus: tt.rental, ShippingStatus: tt.shipping}
			assert.Equal(t, tt.want, NeedsAction(b))
		})
	}
}

func TestCurrentStep(t *testing.T) {
	tests := []struct {
		rental   model.RentalStatus
		shipping model.ShippingStatus
		want     Step
	}{
		{model.RentalPending, model.ShippingNone, StepRequested},
		{model.RentalConfirmed, model.ShippingNone, StepPreparing},
		{model.RentalConfirmed, model.ShippingReadyToShip, StepPreparing},
		{model.RentalConfirmed, model.ShippingInTransitToUser, StepShipping},
		{model.RentalConfirmed, model.ShippingDelivered, StepInUse},
		{model.RentalActive, model.ShippingNone, StepInUse},
		{model.RentalActive, model.ShippingReturnScheduled, StepReturning},
		{model.RentalActive, model.ShippingInTransitToOwner, StepReturning},
		{model.RentalCompleted, model.ShippingNone, StepCompleted},
		{model.RentalCancelled, model.ShippingReadyToShip, StepClosed},
		{model.RentalRejected, model.ShippingNone, StepClosed},
	}

	for _, tt := range tests {
		t.Run(string(tt.rental)+"/"+string(tt.shipping), func(t *testing.T) {
			b := &model.Booking{RentalStatus: tt.rental, ShippingStatus: tt.shipping}
			assert.Equal(t, tt.want, CurrentStep(b))
		})
	}
}

func TestStepIndex(t *testing.T) {
	assert.Equal(t, 0, StepRequested.Index())
	assert.Equal(t, 5, StepCompleted.Index())
	assert.Equal(t, -1, StepClosed.Index())
}

func TestAllowedOperations(t *testing.T) {
	pending := &model.Booking{RentalStatus: model.RentalPending, ShippingStatus: model.ShippingNone}
	assert.ElementsMatch(t,
		[]Operation{OpAdminCancel, OpApprove, OpCancel, OpReject, OpReschedule},
		AllowedOperations(pending),
	)

	delivered := &model.Booking{RentalStatus: model.RentalConfirmed, ShippingStatus: model.ShippingDelivered}
	assert.ElementsMatch(t,
		[]Operation{OpActivate, OpAdminCancel, OpApplyExtension, OpRequestExtension},
		AllowedOperations(delivered),
	)
}

func TestAllowed_UnknownOperation(t *testing.T) {
	b := &model.Booking{RentalStatus: model.RentalPending}
	assert.False(t, Allowed(OpVerifyPayment, b))
	assert.False(t, Allowed(Operation("teleport"), b))
}

func TestNewView(t *testing.T) {
	b := &model.Booking{ID: "b1", RentalStatus: model.RentalActive, ShippingStatus: model.ShippingInTransitToOwner}
	v := NewView(b)

	assert.True(t, v.NeedsAction)
	assert.Equal(t, StepReturning, v.CurrentStep)
	assert.Contains(t, v.AllowedOperations, OpConfirmReturned)
	assert.Equal(t, "b1", v.ID)
}
