package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/pkg/config"
	"camrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	FindCommittedOverlapping(ctx context.Context, itemID string, rng model.DateRange) ([]*model.Booking, error)
	FindByStatus(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByStatus(ctx context.Context, status model.RentalStatus) (int64, error)
	FindNeedingAction(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CountNeedingAction(ctx context.Context) (int64, error)
	DeleteExpiredRejections(ctx context.Context, now time.Time) (int64, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(BookingsCollection),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.ID = newID()
	booking.ShippingStatus = booking.ShippingStatus.Normalize()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now()
		booking.UpdatedAt = booking.CreatedAt
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if err := checkID("booking", id); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	b, err := findOne[model.Booking](ctx, r.collection, bson.M{"_id": id}, "booking", id)
	if err != nil {
		return nil, err
	}
	b.ShippingStatus = b.ShippingStatus.Normalize()
	return b, nil
}

// Update replaces the whole document. Callers hold the booking inside a
// transaction, so a blind replace cannot lose a concurrent write.
func (r *mongoBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.ShippingStatus = booking.ShippingStatus.Normalize()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": booking.ID}, booking)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.NotFound("booking", booking.ID)
	}
	return nil
}

// FindCommittedOverlapping uses closed-interval overlap on calendar days:
// start_date <= rng.End and end_date >= rng.Start.
func (r *mongoBookingRepository) FindCommittedOverlapping(ctx context.Context, itemID string, rng model.DateRange) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"item_id":       itemID,
		"rental_status": bson.M{"$in": model.CommittedStatuses()},
		"start_date":    bson.M{"$lte": rng.End},
		"end_date":      bson.M{"$gte": rng.Start},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) FindByStatus(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, statusFilter(status), opts)
}

func (r *mongoBookingRepository) CountByStatus(ctx context.Context, status model.RentalStatus) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, statusFilter(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindNeedingAction(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, needsActionFilter(), opts)
}

func (r *mongoBookingRepository) CountNeedingAction(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, needsActionFilter())
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings needing action: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) DeleteExpiredRejections(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"rental_status":    model.RentalRejected,
		"rejection_expiry": bson.M{"$lt": now},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge rejected bookings: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	for _, b := range bookings {
		b.ShippingStatus = b.ShippingStatus.Normalize()
	}
	return bookings, nil
}

func statusFilter(status model.RentalStatus) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"rental_status": status}
}

// needsActionFilter mirrors lifecycle.NeedsAction. A null shipping status
// is read as none.
func needsActionFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"rental_status": model.RentalPending},
		bson.M{
			"rental_status":   model.RentalConfirmed,
			"shipping_status": bson.M{"$in": bson.A{model.ShippingNone, model.ShippingReadyToShip, nil}},
		},
		bson.M{"shipping_status": model.ShippingInTransitToOwner},
	}}
}
