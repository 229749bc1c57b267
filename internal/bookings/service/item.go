package service

import (
	"context"

	"camrent/internal/bookings/pricing"
	"camrent/internal/bookings/validator"
	"camrent/pkg/config"
	"camrent/pkg/model"
	"camrent/pkg/sanitizer"
)

type ItemStore interface {
	Create(ctx context.Context, item *model.RentalItem) error
	FindByID(ctx context.Context, id string) (*model.RentalItem, error)
	UpdateTiers(ctx context.Context, id string, tiers []model.PricingTier) (*model.RentalItem, error)
}

type PriceResolver interface {
	ResolvePrice(ctx context.Context, itemID string, start, end model.Date) (pricing.Quote, error)
}

type ConflictFinder interface {
	FindConflicts(ctx context.Context, itemID string, rng model.DateRange, excludeID string) ([]*model.Booking, error)
}

type ItemService interface {
	Create(ctx context.Context, item *model.RentalItem) error
	GetByID(ctx context.Context, id string) (*model.RentalItem, error)
	UpdateTiers(ctx context.Context, id string, update *model.TiersUpdate) (*model.RentalItem, error)
	Quote(ctx context.Context, id string, start, end model.Date) (pricing.Quote, error)
	Conflicts(ctx context.Context, id string, start, end model.Date, excludeID string) ([]*model.Booking, error)
}

type itemService struct {
	items     ItemStore
	prices    PriceResolver
	conflicts ConflictFinder
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewItemService(
	items ItemStore,
	prices PriceResolver,
	conflicts ConflictFinder,
	validator *validator.BookingValidator,
	cfg *config.Config,
) ItemService {
	return &itemService{
		items:     items,
		prices:    prices,
		conflicts: conflicts,
		validator: validator,
		cfg:       cfg,
	}
}

// Create derives the id from the name when the caller gives none.
func (s *itemService) Create(ctx context.Context, item *model.RentalItem) error {
	item.Name = sanitizer.NormalizeName(item.Name)
	if item.ID == "" {
		item.ID = sanitizer.NormalizeSlug(item.Name)
	} else {
		item.ID = sanitizer.NormalizeSlug(item.ID)
	}
	sanitizeTiers(item.Tiers)

	if err := s.validator.ValidateItem(item); err != nil {
		s.cfg.Log.Warn("Rental item validation failed", "item_id", item.ID, "error", err)
		return err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return err
	}

	s.cfg.Log.Info("Rental item created", "item_id", item.ID, "tiers", len(item.Tiers))
	return nil
}

func (s *itemService) GetByID(ctx context.Context, id string) (*model.RentalItem, error) {
	return s.items.FindByID(ctx, id)
}

func (s *itemService) UpdateTiers(ctx context.Context, id string, update *model.TiersUpdate) (*model.RentalItem, error) {
	sanitizeTiers(update.Tiers)
	if err := s.validator.ValidateTiers(update.Tiers); err != nil {
		return nil, err
	}

	item, err := s.items.UpdateTiers(ctx, id, update.Tiers)
	if err != nil {
		return nil, err
	}

	// existing bookings keep the price they were quoted
	s.cfg.Log.Info("Rental item tiers replaced", "item_id", id, "tiers", len(update.Tiers))
	return item, nil
}

func (s *itemService) Quote(ctx context.Context, id string, start, end model.Date) (pricing.Quote, error) {
	return s.prices.ResolvePrice(ctx, id, start, end)
}

func (s *itemService) Conflicts(ctx context.Context, id string, start, end model.Date, excludeID string) ([]*model.Booking, error) {
	rng, err := model.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.FindByID(ctx, id); err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts.FindConflicts(ctx, id, rng, excludeID)
	if err != nil {
		return nil, err
	}
	if conflicts == nil {
		conflicts = []*model.Booking{}
	}
	return conflicts, nil
}

func sanitizeTiers(tiers []model.PricingTier) {
	for i := range tiers {
		tiers[i].Description = sanitizer.TrimAndNormalize(tiers[i].Description)
	}
}
