// Package lifecycle owns every booking mutation. Each operation is a
// guarded transition over the rental, shipping and payment axes; guards
// live in one table and are enforced only here.
package lifecycle

import (
	"context"
	"time"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/internal/bookings/pricing"
	"camrent/pkg/logger"
	"camrent/pkg/model"
)

// Transactor runs fn as one unit of work. Stores called with the context
// passed to fn take part in the same transaction.
type Transactor interface {
	ExecuteTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	DeleteExpiredRejections(ctx context.Context, now time.Time) (int64, error)
}

// PaymentStore persists primary and extension payments.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	FindPrimary(ctx context.Context, bookingID string) (*model.Payment, error)
	FindByExtension(ctx context.Context, extensionID string) (*model.Payment, error)
}

// ExtensionStore persists extension requests.
type ExtensionStore interface {
	Create(ctx context.Context, e *model.Extension) error
	FindByID(ctx context.Context, id string) (*model.Extension, error)
	Update(ctx context.Context, e *model.Extension) error
	// FindOpenByBooking returns the pending or approved-but-unapplied
	// extension of a booking, or nil without error when there is none.
	FindOpenByBooking(ctx context.Context, bookingID string) (*model.Extension, error)
}

// ItemLocker serializes committers for one item. Acquire fails with
// ErrLockHeld while another request holds the lock.
type ItemLocker interface {
	Acquire(ctx context.Context, itemID string) (ItemLock, error)
}

// ItemLock is a held item lock. Confirm runs inside the committing
// transaction; it renews the lock and fails with ErrLockLost once another
// owner has taken the item over.
type ItemLock interface {
	Confirm(ctx context.Context) error
	Release(ctx context.Context) error
}

// PriceResolver quotes an item for a date range.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, itemID string, start, end model.Date) (pricing.Quote, error)
}

// ConflictFinder lists committed bookings overlapping a range.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, itemID string, rng model.DateRange, excludeID string) ([]*model.Booking, error)
}

// Notifier publishes committed changes. Failures never undo a transition.
type Notifier interface {
	Notify(ctx context.Context, event model.BookingEvent) error
}

// Dependencies are the collaborators a Controller is built from.
type Dependencies struct {
	Tx         Transactor
	Bookings   BookingStore
	Payments   PaymentStore
	Extensions ExtensionStore
	Locks      ItemLocker
	Prices     PriceResolver
	Conflicts  ConflictFinder
	Notifier   Notifier
}

type Options struct {
	// RejectionRetention is how long a rejected booking is kept before it
	// may be purged.
	RejectionRetention time.Duration
	Now                func() time.Time
}

// Controller applies lifecycle operations. It keeps no state between calls.
type Controller struct {
	tx         Transactor
	bookings   BookingStore
	payments   PaymentStore
	extensions ExtensionStore
	locks      ItemLocker
	prices     PriceResolver
	conflicts  ConflictFinder
	notifier   Notifier

	retention time.Duration
	now       func() time.Time
	log       *logger.Logger
}

func NewController(deps Dependencies, opts Options, log *logger.Logger) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		tx:         deps.Tx,
		bookings:   deps.Bookings,
		payments:   deps.Payments,
		extensions: deps.Extensions,
		locks:      deps.Locks,
		prices:     deps.Prices,
		conflicts:  deps.Conflicts,
		notifier:   deps.Notifier,
		retention:  opts.RejectionRetention,
		now:        now,
		log:        log,
	}
}

func (c *Controller) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

// mutateFunc edits the booking copy or, when passed as after, writes the
// records that go with the transition.
type mutateFunc func(ctx context.Context, b *model.Booking) error

// mutate reloads the booking inside a transaction, checks the guard for op,
// applies edit to a copy, runs the conflict check when op requires it, saves
// the copy and then runs after. Nothing is written unless every step passes.
func (c *Controller) mutate(ctx context.Context, id string, op Operation, edit, after mutateFunc) (*model.Booking, error) {
	var updated *model.Booking
	err := c.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = c.mutateInTx(ctx, id, op, edit, after)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// mutateInTx is the body of mutate for callers that already run inside a
// transaction.
func (c *Controller) mutateInTx(ctx context.Context, id string, op Operation, edit, after mutateFunc) (*model.Booking, error) {
	current, err := c.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(op, current) {
		return nil, bookingserrors.IllegalTransition(current.State(), string(op))
	}

	if err := confirmItemLock(ctx); err != nil {
		return nil, err
	}

	next := current.Clone()
	t := transitions[op]
	if t.apply != nil {
		t.apply(next)
	}
	if edit != nil {
		if err := edit(ctx, next); err != nil {
			return nil, err
		}
	}
	if t.checksConflicts {
		if err := c.ensureNoConflicts(ctx, next); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = c.timestamp()
	if err := c.bookings.Update(ctx, next); err != nil {
		return nil, err
	}
	if after != nil {
		if err := after(ctx, next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// mutateLocked is mutate for operations that commit dates. The item lock is
// taken before the transaction so a concurrent committer for the same item
// fails fast instead of racing the conflict check.
func (c *Controller) mutateLocked(ctx context.Context, id string, op Operation, edit, after mutateFunc) (*model.Booking, error) {
	current, err := c.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(op, current) {
		return nil, bookingserrors.IllegalTransition(current.State(), string(op))
	}

	var out *model.Booking
	err = c.withItemLock(ctx, current.ItemID, func(ctx context.Context) error {
		out, err = c.mutate(ctx, id, op, edit, after)
		return err
	})
	return out, err
}

type itemLockKey struct{}

// withItemLock holds the item lock while fn runs. fn's context carries the
// lock so mutateInTx can confirm it inside the transaction.
func (c *Controller) withItemLock(ctx context.Context, itemID string, fn func(ctx context.Context) error) error {
	lock, err := c.locks.Acquire(ctx, itemID)
	if err != nil {
		return err
	}
	defer func() {
		// the request context may already be done; the lock must still go
		if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			c.log.Warn("Failed to release item lock", "item_id", itemID, "error", relErr)
		}
	}()
	return fn(context.WithValue(ctx, itemLockKey{}, lock))
}

func confirmItemLock(ctx context.Context) error {
	lock, ok := ctx.Value(itemLockKey{}).(ItemLock)
	if !ok {
		return nil
	}
	return lock.Confirm(ctx)
}

func (c *Controller) ensureNoConflicts(ctx context.Context, b *model.Booking) error {
	conflicts, err := c.conflicts.FindConflicts(ctx, b.ItemID, b.Range(), b.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &bookingserrors.ConflictError{Conflicts: conflicts}
	}
	return nil
}

func (c *Controller) reprice(ctx context.Context, b *model.Booking) error {
	quote, err := c.prices.ResolvePrice(ctx, b.ItemID, b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	quote.Apply(b)
	return nil
}

func (c *Controller) newPrimaryPayment(b *model.Booking) *model.Payment {
	now := c.timestamp()
	return &model.Payment{
		BookingID:   b.ID,
		AmountCents: b.TotalPriceCents,
		Status:      model.PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c *Controller) publish(ctx context.Context, event model.BookingEvent) {
	if c.notifier == nil {
		return
	}
	event.OccurredAt = c.timestamp()
	if err := c.notifier.Notify(context.WithoutCancel(ctx), event); err != nil {
		c.log.Warn("Failed to publish booking event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

func bookingEvent(t model.EventType, b *model.Booking) model.BookingEvent {
	return model.BookingEvent{
		Type:           t,
		BookingID:      b.ID,
		ItemID:         b.ItemID,
		RentalStatus:   b.RentalStatus,
		ShippingStatus: b.ShippingStatus.Normalize(),
	}
}
