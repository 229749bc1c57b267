package testutil

import (
	"testing"

	"camrent/pkg/model"
)

// BookingBuilder builds request bodies for POST /api/v1/bookings.
type BookingBuilder struct {
	body map[string]any
}

func NewBookingBuilder(itemID string) *BookingBuilder {
	return &BookingBuilder{body: map[string]any{
		"item_id":          itemID,
		"customer_name":    "Integration Tester",
		"customer_contact": "+972501234567",
		"start_date":       "2030-06-01",
		"end_date":         "2030-06-05",
	}}
}

func (b *BookingBuilder) WithDates(start, end string) *BookingBuilder {
	b.body["start_date"] = start
	b.body["end_date"] = end
	return b
}

func (b *BookingBuilder) WithCustomer(name string) *BookingBuilder {
	b.body["customer_name"] = name
	return b
}

func (b *BookingBuilder) Build() map[string]any {
	return b.body
}

func intPtr(n int) *int { return &n }

// StandardTiers is 1-3 days at 80.00, 4-7 at 60.00 and 8+ at 50.00 per day.
func StandardTiers() []model.PricingTier {
	return []model.PricingTier{
		{MinDays: 1, MaxDays: intPtr(3), PricePerDayCents: 8000, Description: "short"},
		{MinDays: 4, MaxDays: intPtr(7), PricePerDayCents: 6000, Description: "week"},
		{MinDays: 8, PricePerDayCents: 5000, Description: "long"},
	}
}

// CreateItem registers an item with StandardTiers and returns its id.
func CreateItem(t *testing.T, c *Client, name string) string {
	t.Helper()
	resp := c.POST(t, "/api/v1/items", map[string]any{"name": name, "tiers": StandardTiers()})
	RequireStatus(t, resp, 201)

	var item model.RentalItem
	resp.Data(t, &item)
	return item.ID
}
