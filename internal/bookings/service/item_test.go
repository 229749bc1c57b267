package service

import (
	"context"
	"testing"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/internal/bookings/pricing"
	"camrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItemService(items *mockItemStore, prices *mockPriceResolver, conflicts *mockConflictFinder) ItemService {
	return NewItemService(items, prices, conflicts, testValidator(), testConfig())
}

func TestItemCreate_DerivesIDFromName(t *testing.T) {
	var stored *model.RentalItem
	items := &mockItemStore{CreateFunc: func(_ context.Context, item *model.RentalItem) error {
		stored = item
		return nil
	}}
	svc := newItemService(items, nil, nil)

	err := svc.Create(context.Background(), &model.RentalItem{
		Name:  "  Sony  A7 III ",
		Tiers: []model.PricingTier{{MinDays: 1, PricePerDayCents: 5000, Description: " daily "}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sony_a7_iii", stored.ID)
	assert.Equal(t, "Sony A7 III", stored.Name)
	assert.Equal(t, "daily", stored.Tiers[0].Description)
}

func TestItemCreate_RejectsGappedTiers(t *testing.T) {
	items := &mockItemStore{CreateFunc: func(context.Context, *model.RentalItem) error {
		t.Fatal("store must not be called")
		return nil
	}}
	three := 3
	svc := newItemService(items, nil, nil)

	err := svc.Create(context.Background(), &model.RentalItem{
		Name: "Canon R5",
		Tiers: []model.PricingTier{
			{MinDays: 1, MaxDays: &three, PricePerDayCents: 9000},
			{MinDays: 5, PricePerDayCents: 7000},
		},
	})
	assert.ErrorIs(t, err, bookingserrors.ErrValidation)
}

func TestItemUpdateTiers(t *testing.T) {
	items := &mockItemStore{UpdateTiersFunc: func(_ context.Context, id string, tiers []model.PricingTier) (*model.RentalItem, error) {
		return &model.RentalItem{ID: id, Tiers: tiers}, nil
	}}
	svc := newItemService(items, nil, nil)

	item, err := svc.UpdateTiers(context.Background(), "canon_r5", &model.TiersUpdate{
		Tiers: []model.PricingTier{{MinDays: 1, PricePerDayCents: 4000}},
	})
	require.NoError(t, err)
	assert.Len(t, item.Tiers, 1)

	_, err = svc.UpdateTiers(context.Background(), "canon_r5", &model.TiersUpdate{})
	assert.ErrorIs(t, err, bookingserrors.ErrValidation)
}

func TestItemQuote(t *testing.T) {
	prices := &mockPriceResolver{ResolvePriceFunc: func(_ context.Context, itemID string, start, end model.Date) (pricing.Quote, error) {
		return pricing.Quote{Days: 5, PricePerDayCents: 8000, TotalPriceCents: 40000}, nil
	}}
	svc := newItemService(nil, prices, nil)

	q, err := svc.Quote(context.Background(), "sony_a7_iii", model.NewDate(2024, 6, 1), model.NewDate(2024, 6, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(40000), q.TotalPriceCents)
}

func TestItemConflicts(t *testing.T) {
	items := &mockItemStore{FindByIDFunc: func(_ context.Context, id string) (*model.RentalItem, error) {
		if id != "sony_a7_iii" {
			return nil, bookingserrors.NotFound("rental item", id)
		}
		return &model.RentalItem{ID: id}, nil
	}}
	conflicts := &mockConflictFinder{FindConflictsFunc: func(_ context.Context, itemID string, rng model.DateRange, excludeID string) ([]*model.Booking, error) {
		assert.Equal(t, "b9", excludeID)
		assert.Equal(t, 3, rng.Days())
		return nil, nil
	}}
	svc := newItemService(items, nil, conflicts)
	start, end := model.NewDate(2024, 6, 1), model.NewDate(2024, 6, 3)

	got, err := svc.Conflicts(context.Background(), "sony_a7_iii", start, end, "b9")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = svc.Conflicts(context.Background(), "missing", start, end, "")
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = svc.Conflicts(context.Background(), "sony_a7_iii", end, start, "")
	assert.ErrorIs(t, err, bookingserrors.ErrInvalidRange)
}
