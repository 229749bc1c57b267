package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "camrent/internal/bookings/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	BookingsCollection   = "Bookings"
	ItemsCollection      = "Rental_items"
	PaymentsCollection   = "Payments"
	ExtensionsCollection = "Extensions"
	LocksCollection      = "Booking_locks"
)

// withTimeout wraps the context with a timeout unless it carries a session.
// Inside a transaction the session context is returned unchanged with a
// no-op cancel so the transaction's own deadline governs.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongo.SessionFromContext(ctx) != nil {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func checkID(resource, id string) error {
	if !primitive.IsValidObjectID(id) {
		return fmt.Errorf("%w: %s %q", bookingserrors.ErrInvalidID, resource, id)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// findOne decodes a single document, mapping "no documents" to a typed
// not-found error for resource/key.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, resource, key string) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.NotFound(resource, key)
		}
		return nil, fmt.Errorf("failed to find %s: %w", resource, err)
	}
	return &out, nil
}
