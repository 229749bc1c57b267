package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/pkg/config"
	"camrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExtensionRepository interface {
	Create(ctx context.Context, ext *model.Extension) error
	FindByID(ctx context.Context, id string) (*model.Extension, error)
	Update(ctx context.Context, ext *model.Extension) error
	FindOpenByBooking(ctx context.Context, bookingID string) (*model.Extension, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Extension, error)
}

type mongoExtensionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoExtensionRepository(cfg *config.Config) ExtensionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExtensionRepository{
		cfg:        cfg,
		collection: db.Collection(ExtensionsCollection),
	}
}

func (r *mongoExtensionRepository) Create(ctx context.Context, ext *model.Extension) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ext.ID = newID()
	if _, err := r.collection.InsertOne(ctx, ext); err != nil {
		return fmt.Errorf("failed to create extension: %w", err)
	}
	return nil
}

func (r *mongoExtensionRepository) FindByID(ctx context.Context, id string) (*model.Extension, error) {
	if err := checkID("extension", id); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return findOne[model.Extension](ctx, r.collection, bson.M{"_id": id}, "extension", id)
}

func (r *mongoExtensionRepository) Update(ctx context.Context, ext *model.Extension) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": ext.ID}, ext)
	if err != nil {
		return fmt.Errorf("failed to update extension: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.NotFound("extension", ext.ID)
	}
	return nil
}

// FindOpenByBooking returns the pending or approved-but-unapplied extension
// of a booking, or nil when there is none.
func (r *mongoExtensionRepository) FindOpenByBooking(ctx context.Context, bookingID string) (*model.Extension, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	ext, err := findOne[model.Extension](ctx, r.collection, openExtensionFilter(bookingID), "extension", bookingID)
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, nil
	}
	return ext, err
}

func (r *mongoExtensionRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Extension, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find extensions: %w", err)
	}
	defer cursor.Close(ctx)

	exts := []*model.Extension{}
	if err := cursor.All(ctx, &exts); err != nil {
		return nil, fmt.Errorf("failed to decode extensions: %w", err)
	}
	return exts, nil
}

// applied_at: nil also matches documents where the field is absent.
func openExtensionFilter(bookingID string) bson.M {
	return bson.M{
		"booking_id": bookingID,
		"$or": bson.A{
			bson.M{"extension_status": model.ExtensionPending},
			bson.M{"extension_status": model.ExtensionApproved, "applied_at": nil},
		},
	}
}
