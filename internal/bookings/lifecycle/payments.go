package lifecycle

import (
	"context"
	"slices"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/pkg/model"
)

// paymentTransitions maps each payment operation to the statuses it may
// start from and the status it leaves behind. Payment changes never touch
// the booking's dates, so none of them re-run the conflict check.
var paymentTransitions = map[Operation]struct {
	from []model.PaymentStatus
	to   model.PaymentStatus
}{
	OpSubmitPayment: {from: []model.PaymentStatus{model.PaymentPending, model.PaymentRejected}, to: model.PaymentSubmitted},
	OpVerifyPayment: {from: []model.PaymentStatus{model.PaymentSubmitted}, to: model.PaymentVerified},
	OpRejectPayment: {from: []model.PaymentStatus{model.PaymentSubmitted}, to: model.PaymentRejected},
}

// SubmitPayment attaches the customer's receipt handle. A rejected payment
// may be resubmitted with a new receipt.
func (c *Controller) SubmitPayment(ctx context.Context, id string, receiptRef string) (*model.Payment, error) {
	return c.mutatePayment(ctx, id, OpSubmitPayment, func(p *model.Payment) {
		p.ReceiptRef = receiptRef
	}, model.EventPaymentSubmitted)
}

func (c *Controller) VerifyPayment(ctx context.Context, id string) (*model.Payment, error) {
	return c.mutatePayment(ctx, id, OpVerifyPayment, nil, model.EventPaymentVerified)
}

func (c *Controller) RejectPayment(ctx context.Context, id string) (*model.Payment, error) {
	return c.mutatePayment(ctx, id, OpRejectPayment, nil, model.EventPaymentRejected)
}

func (c *Controller) mutatePayment(ctx context.Context, id string, op Operation, edit func(p *model.Payment), event model.EventType) (*model.Payment, error) {
	rule := paymentTransitions[op]

	var updated *model.Payment
	err := c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		current, err := c.payments.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !slices.Contains(rule.from, current.Status) {
			return bookingserrors.IllegalTransition("payment:"+string(current.Status), string(op))
		}

		next := *current
		next.Status = rule.to
		if edit != nil {
			edit(&next)
		}
		next.UpdatedAt = c.timestamp()
		if err := c.payments.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Payment transition applied", "payment_id", updated.ID, "booking_id", updated.BookingID, "operation", op, "payment_status", updated.Status)
	c.publish(ctx, model.BookingEvent{
		Type:          event,
		BookingID:     updated.BookingID,
		PaymentID:     updated.ID,
		PaymentStatus: updated.Status,
		ExtensionID:   deref(updated.ExtensionID),
	})
	return updated, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
