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

type ItemRepository interface {
	Create(ctx context.Context, item *model.RentalItem) error
	FindByID(ctx context.Context, id string) (*model.RentalItem, error)
	UpdateTiers(ctx context.Context, id string, tiers []model.PricingTier) (*model.RentalItem, error)
	// Upsert writes the item under its own id. Used by the catalog seed.
	Upsert(ctx context.Context, item *model.RentalItem) (created bool, err error)
}

type mongoItemRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoItemRepository(cfg *config.Config) ItemRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoItemRepository{
		cfg:        cfg,
		collection: db.Collection(ItemsCollection),
	}
}

// Create keeps a caller-chosen id such as a catalog slug and generates one
// otherwise.
func (r *mongoItemRepository) Create(ctx context.Context, item *model.RentalItem) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if item.ID == "" {
		item.ID = newID()
	}
	item.CreatedAt = now()
	item.UpdatedAt = item.CreatedAt

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: item %s already exists", bookingserrors.ErrValidation, item.ID)
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *mongoItemRepository) FindByID(ctx context.Context, id string) (*model.RentalItem, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return findOne[model.RentalItem](ctx, r.collection, bson.M{"_id": id}, "item", id)
}

func (r *mongoItemRepository) UpdateTiers(ctx context.Context, id string, tiers []model.PricingTier) (*model.RentalItem, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"tiers": tiers, "updated_at": now()}}

	var item model.RentalItem
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.NotFound("item", id)
		}
		return nil, fmt.Errorf("failed to update item tiers: %w", err)
	}
	return &item, nil
}

func (r *mongoItemRepository) Upsert(ctx context.Context, item *model.RentalItem) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ts := now()
	update := bson.M{
		"$set": bson.M{
			"name":       item.Name,
			"tiers":      item.Tiers,
			"updated_at": ts,
		},
		"$setOnInsert": bson.M{"created_at": ts},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert item %s: %w", item.ID, err)
	}
	return result.UpsertedCount > 0, nil
}
