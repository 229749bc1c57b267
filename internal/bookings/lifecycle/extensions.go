package lifecycle

import (
	"context"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/pkg/model"
)

// RequestExtension asks to push the end date of a delivered rental further
// out. A booking has at most one open extension: pending, or approved and
// not yet applied.
func (c *Controller) RequestExtension(ctx context.Context, bookingID string, req model.ExtensionRequest) (*model.Extension, error) {
	var ext *model.Extension
	err := c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		b, err := c.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !Allowed(OpRequestExtension, b) {
			return bookingserrors.IllegalTransition(b.State(), string(OpRequestExtension))
		}
		if !req.RequestedEndDate.After(b.EndDate) {
			return validationError("requested_end_date", "must be after the current end date "+b.EndDate.String())
		}

		open, err := c.extensions.FindOpenByBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if open != nil {
			return bookingserrors.IllegalTransition("extension:"+string(open.Status), string(OpRequestExtension))
		}

		now := c.timestamp()
		ext = &model.Extension{
			BookingID:        b.ID,
			OriginalEndDate:  b.EndDate,
			RequestedEndDate: req.RequestedEndDate,
			Status:           model.ExtensionPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return c.extensions.Create(ctx, ext)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Extension requested", "extension_id", ext.ID, "booking_id", ext.BookingID, "requested_end_date", ext.RequestedEndDate.String())
	c.publish(ctx, extensionEvent(model.EventExtensionRequested, ext))
	return ext, nil
}

// ApproveExtension accepts a pending request and opens a payment for the
// price difference. The conflict check here is advisory; ApplyExtension
// repeats it under the item lock.
func (c *Controller) ApproveExtension(ctx context.Context, id string) (*model.Extension, error) {
	var ext *model.Extension
	err := c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		current, err := c.loadExtension(ctx, id, OpApproveExtension, model.ExtensionPending)
		if err != nil {
			return err
		}
		b, err := c.bookings.FindByID(ctx, current.BookingID)
		if err != nil {
			return err
		}
		if !Allowed(OpApplyExtension, b) {
			return bookingserrors.IllegalTransition(b.State(), string(OpApproveExtension))
		}
		if err := checkExtends(current, b, OpApproveExtension); err != nil {
			return err
		}

		extended := b.Clone()
		extended.EndDate = current.RequestedEndDate
		if err := c.ensureNoConflicts(ctx, extended); err != nil {
			return err
		}
		if err := c.reprice(ctx, extended); err != nil {
			return err
		}

		now := c.timestamp()
		next := *current
		next.Status = model.ExtensionApproved
		next.UpdatedAt = now
		if err := c.extensions.Update(ctx, &next); err != nil {
			return err
		}

		payment := &model.Payment{
			BookingID:   b.ID,
			ExtensionID: &next.ID,
			AmountCents: max(0, extended.TotalPriceCents-b.TotalPriceCents),
			Status:      model.PaymentPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		// a longer rental can land on a cheaper tier; nothing is owed then
		if payment.AmountCents == 0 {
			payment.Status = model.PaymentVerified
		}
		if err := c.payments.Create(ctx, payment); err != nil {
			return err
		}
		ext = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Extension approved", "extension_id", ext.ID, "booking_id", ext.BookingID)
	c.publish(ctx, extensionEvent(model.EventExtensionApproved, ext))
	return ext, nil
}

func (c *Controller) RejectExtension(ctx context.Context, id string) (*model.Extension, error) {
	var ext *model.Extension
	err := c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		current, err := c.loadExtension(ctx, id, OpRejectExtension, model.ExtensionPending)
		if err != nil {
			return err
		}
		next := *current
		next.Status = model.ExtensionRejected
		next.UpdatedAt = c.timestamp()
		if err := c.extensions.Update(ctx, &next); err != nil {
			return err
		}
		ext = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Extension rejected", "extension_id", ext.ID, "booking_id", ext.BookingID)
	c.publish(ctx, extensionEvent(model.EventExtensionRejected, ext))
	return ext, nil
}

// ApplyExtension writes the approved end date onto the booking once the
// extension payment is verified. This is the only path that moves an end
// date after creation. The booking and the extension change together.
func (c *Controller) ApplyExtension(ctx context.Context, id string) (*model.Booking, error) {
	ext, err := c.extensions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := c.bookings.FindByID(ctx, ext.BookingID)
	if err != nil {
		return nil, err
	}

	var b *model.Booking
	err = c.withItemLock(ctx, owner.ItemID, func(ctx context.Context) error {
		return c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
			current, err := c.loadExtension(ctx, id, OpApplyExtension, model.ExtensionApproved)
			if err != nil {
				return err
			}
			if current.AppliedAt != nil {
				return bookingserrors.IllegalTransition("extension:applied", string(OpApplyExtension))
			}
			payment, err := c.payments.FindByExtension(ctx, current.ID)
			if err != nil {
				return err
			}
			if payment.Status != model.PaymentVerified {
				return bookingserrors.IllegalTransition("payment:"+string(payment.Status), string(OpApplyExtension))
			}

			edit := func(ctx context.Context, b *model.Booking) error {
				if err := checkExtends(current, b, OpApplyExtension); err != nil {
					return err
				}
				b.EndDate = current.RequestedEndDate
				return c.reprice(ctx, b)
			}
			after := func(ctx context.Context, _ *model.Booking) error {
				applied := c.timestamp()
				next := *current
				next.AppliedAt = &applied
				next.UpdatedAt = applied
				return c.extensions.Update(ctx, &next)
			}
			b, err = c.mutateInTx(ctx, current.BookingID, OpApplyExtension, edit, after)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Extension applied", "extension_id", id, "booking_id", b.ID, "end_date", b.EndDate.String(), "total_price_cents", b.TotalPriceCents)
	event := bookingEvent(model.EventExtensionApplied, b)
	event.ExtensionID = id
	event.ExtensionState = model.ExtensionApproved
	c.publish(ctx, event)
	return b, nil
}

func (c *Controller) loadExtension(ctx context.Context, id string, op Operation, want model.ExtensionStatus) (*model.Extension, error) {
	ext, err := c.extensions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ext.Status != want {
		return nil, bookingserrors.IllegalTransition("extension:"+string(ext.Status), string(op))
	}
	return ext, nil
}

// checkExtends rejects an extension written against an end date the booking
// no longer has, or one that would not move the end date forward.
func checkExtends(e *model.Extension, b *model.Booking, op Operation) error {
	if !e.OriginalEndDate.Equal(b.EndDate) || !e.RequestedEndDate.After(b.EndDate) {
		return bookingserrors.IllegalTransition("extension:stale", string(op))
	}
	return nil
}

func extensionEvent(t model.EventType, e *model.Extension) model.BookingEvent {
	return model.BookingEvent{
		Type:           t,
		BookingID:      e.BookingID,
		ExtensionID:    e.ID,
		ExtensionState: e.Status,
	}
}
