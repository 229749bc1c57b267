package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/internal/bookings/lifecycle"
	"camrent/pkg/config"
	"camrent/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingLockRepository hands out per-item advisory locks. The lock
// document's _id is the item id, so only one insert can win.
type BookingLockRepository interface {
	Acquire(ctx context.Context, itemID string) (lifecycle.ItemLock, error)
}

type mongoBookingLockRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
	timeout    time.Duration
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		collection: db.Collection(LocksCollection),
		ttl:        cfg.BookingLockTTL,
		timeout:    cfg.WriteTimeout,
	}
}

// Acquire returns ErrLockHeld while another owner holds an unexpired lock
// on the item.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, itemID string) (lifecycle.ItemLock, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	ts := now()

	// the TTL monitor runs about once a minute; clear a stale lock ourselves
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": itemID, "expires_at": bson.M{"$lt": ts}}); err != nil {
		return nil, fmt.Errorf("failed to clear expired booking lock: %w", err)
	}

	lock := &model.BookingLock{
		ID:        itemID,
		Owner:     uuid.NewString(),
		ExpiresAt: ts.Add(r.ttl),
		CreatedAt: ts,
	}
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrLockHeld
		}
		return nil, fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	return &heldLock{repo: r, itemID: itemID, owner: lock.Owner}, nil
}

type heldLock struct {
	repo   *mongoBookingLockRepository
	itemID string
	owner  string
}

// Confirm pushes expires_at out from inside the caller's transaction. The
// write puts the lock document in the transaction's write set, so a
// committer that lost the lock matches nothing and one that still holds it
// blocks the stale-lock delete until commit.
func (l *heldLock) Confirm(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, l.repo.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"expires_at": now().Add(l.repo.ttl)}}
	result, err := l.repo.collection.UpdateOne(ctx, lockOwnerFilter(l.itemID, l.owner), update)
	if err != nil {
		return fmt.Errorf("failed to confirm booking lock: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrLockLost
	}
	return nil
}

// Release only removes the caller's own lock.
func (l *heldLock) Release(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, l.repo.timeout)
	defer cancel()
	_, err := l.repo.collection.DeleteOne(ctx, lockOwnerFilter(l.itemID, l.owner))
	return err
}

func lockOwnerFilter(itemID, owner string) bson.M {
	return bson.M{"_id": itemID, "owner": owner}
}
