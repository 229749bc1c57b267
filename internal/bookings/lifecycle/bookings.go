package lifecycle

import (
	"context"
	"time"

	"camrent/pkg/model"
)

// Submit records a customer request. Pending bookings do not block dates,
// so no conflict check runs here.
func (c *Controller) Submit(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	quote, err := c.prices.ResolvePrice(ctx, req.ItemID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	now := c.timestamp()
	b := newBooking(req, now)
	b.RentalStatus = model.RentalPending
	b.Origin = model.OriginCustomerSubmitted
	quote.Apply(b)

	if err := c.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	c.log.Info("Booking submitted", "booking_id", b.ID, "item_id", b.ItemID, "range", b.Range().String())
	c.publish(ctx, bookingEvent(model.EventBookingSubmitted, b))
	return b, nil
}

// CreateStaffEntry records a rental agreed in person. It skips approval and
// lands directly in a committed status, so it is conflict-checked under the
// item lock and gets its primary payment in the same transaction.
func (c *Controller) CreateStaffEntry(ctx context.Context, req model.StaffEntryRequest) (*model.Booking, error) {
	if req.RentalStatus != model.RentalConfirmed && req.RentalStatus != model.RentalCompleted {
		return nil, validationError("rental_status", "must be confirmed or completed")
	}

	now := c.timestamp()
	b := newBooking(req.BookingRequest, now)
	b.RentalStatus = req.RentalStatus
	b.Origin = model.OriginStaffEntered
	b.ContractRef = req.ContractRef

	err := c.withItemLock(ctx, b.ItemID, func(ctx context.Context) error {
		return c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
			if err := confirmItemLock(ctx); err != nil {
				return err
			}
			if err := c.reprice(ctx, b); err != nil {
				return err
			}
			if err := c.ensureNoConflicts(ctx, b); err != nil {
				return err
			}
			if err := c.bookings.Create(ctx, b); err != nil {
				return err
			}
			return c.payments.Create(ctx, c.newPrimaryPayment(b))
		})
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("Staff booking entered", "booking_id", b.ID, "item_id", b.ItemID, "rental_status", b.RentalStatus)
	c.publish(ctx, bookingEvent(model.EventBookingStaffEntry, b))
	return b, nil
}

func newBooking(req model.BookingRequest, now time.Time) *model.Booking {
	return &model.Booking{
		ItemID:          req.ItemID,
		OwnerRef:        req.OwnerRef,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		CustomerEmail:   req.CustomerEmail,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		ShippingStatus:  model.ShippingNone,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Approve commits a pending booking and opens its primary payment.
func (c *Controller) Approve(ctx context.Context, id string) (*model.Booking, error) {
	b, err := c.mutateLocked(ctx, id, OpApprove, nil, func(ctx context.Context, b *model.Booking) error {
		return c.payments.Create(ctx, c.newPrimaryPayment(b))
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("Booking approved", "booking_id", b.ID, "item_id", b.ItemID)
	c.publish(ctx, bookingEvent(model.EventBookingApproved, b))
	return b, nil
}

func (c *Controller) Reject(ctx context.Context, id string, reason string) (*model.Booking, error) {
	b, err := c.mutate(ctx, id, OpReject, func(_ context.Context, b *model.Booking) error {
		expiry := c.timestamp().Add(c.retention)
		b.RentalStatus = model.RentalRejected
		b.RejectionReason = reason
		b.RejectionExpiry = &expiry
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	c.log.Info("Booking rejected", "booking_id", b.ID, "expires_at", b.RejectionExpiry)
	c.publish(ctx, bookingEvent(model.EventBookingRejected, b))
	return b, nil
}

func (c *Controller) MarkReadyToShip(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpMarkReadyToShip, model.EventBookingShipping)
}

func (c *Controller) MarkInTransitToCustomer(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpMarkInTransitToCustomer, model.EventBookingShipping)
}

func (c *Controller) ConfirmDelivered(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpConfirmDelivered, model.EventBookingShipping)
}

func (c *Controller) Activate(ctx context.Context, id string) (*model.Booking, error) {
	b, err := c.mutateLocked(ctx, id, OpActivate, nil, nil)
	if err != nil {
		return nil, err
	}
	c.log.Info("Booking activated", "booking_id", b.ID)
	c.publish(ctx, bookingEvent(model.EventBookingActivated, b))
	return b, nil
}

func (c *Controller) ScheduleReturn(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpScheduleReturn, model.EventBookingShipping)
}

func (c *Controller) ConfirmShippedBack(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpConfirmShippedBack, model.EventBookingShipping)
}

func (c *Controller) ConfirmReturned(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpConfirmReturned, model.EventBookingCompleted)
}

// Cancel is the customer-initiated cancellation. It is refused once the
// item has left the shop.
func (c *Controller) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpCancel, model.EventBookingCancelled)
}

func (c *Controller) AdminCancel(ctx context.Context, id string) (*model.Booking, error) {
	return c.simple(ctx, id, OpAdminCancel, model.EventBookingCancelled)
}

// Reschedule moves the rental to new dates, re-prices it and, for a
// confirmed booking whose primary payment is still unpaid, updates the
// amount due.
func (c *Controller) Reschedule(ctx context.Context, id string, req model.RescheduleRequest) (*model.Booking, error) {
	rng, err := model.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	edit := func(ctx context.Context, b *model.Booking) error {
		b.StartDate, b.EndDate = rng.Start, rng.End
		return c.reprice(ctx, b)
	}
	after := func(ctx context.Context, b *model.Booking) error {
		if b.RentalStatus != model.RentalConfirmed {
			return nil
		}
		return c.syncPrimaryPayment(ctx, b)
	}
	b, err := c.mutateLocked(ctx, id, OpReschedule, edit, after)
	if err != nil {
		return nil, err
	}
	c.log.Info("Booking rescheduled", "booking_id", b.ID, "range", b.Range().String(), "total_price_cents", b.TotalPriceCents)
	c.publish(ctx, bookingEvent(model.EventBookingRescheduled, b))
	return b, nil
}

func (c *Controller) syncPrimaryPayment(ctx context.Context, b *model.Booking) error {
	p, err := c.payments.FindPrimary(ctx, b.ID)
	if err != nil {
		return err
	}
	if p.Status != model.PaymentPending || p.AmountCents == b.TotalPriceCents {
		return nil
	}
	p.AmountCents = b.TotalPriceCents
	p.UpdatedAt = c.timestamp()
	return c.payments.Update(ctx, p)
}

func (c *Controller) simple(ctx context.Context, id string, op Operation, event model.EventType) (*model.Booking, error) {
	b, err := c.mutate(ctx, id, op, nil, nil)
	if err != nil {
		return nil, err
	}
	c.log.Info("Booking transition applied", "booking_id", b.ID, "operation", op, "state", b.State())
	c.publish(ctx, bookingEvent(event, b))
	return b, nil
}

// PurgeExpiredRejections deletes rejected bookings whose retention window
// has passed.
func (c *Controller) PurgeExpiredRejections(ctx context.Context) (int64, error) {
	n, err := c.bookings.DeleteExpiredRejections(ctx, c.timestamp())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.log.Info("Purged expired rejected bookings", "count", n)
	}
	return n, nil
}
