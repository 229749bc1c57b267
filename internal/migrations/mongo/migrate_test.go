package mongo

import (
	"testing"

	"camrent/internal/bookings/repository"
	"camrent/internal/migrations/mongo/validators"
	"camrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_CoverRepositories(t *testing.T) {
	names := map[string]bool{}
	for _, def := range Collections() {
		names[def.Name] = true
	}
	for _, want := range []string{
		repository.BookingsCollection,
		repository.ItemsCollection,
		repository.PaymentsCollection,
		repository.ExtensionsCollection,
		repository.LocksCollection,
	} {
		assert.True(t, names[want], want)
	}
}

func TestPrimaryPaymentIndexIsUniqueAndPartial(t *testing.T) {
	var found bool
	for _, idx := range PaymentsIndexes {
		if idx.Options == nil || idx.Options.Name == nil || *idx.Options.Name != "booking_primary_payment" {
			continue
		}
		found = true
		assert.True(t, *idx.Options.Unique)
		assert.Equal(t,
			bson.D{{Key: "extension_id", Value: bson.D{{Key: "$type", Value: "null"}}}},
			idx.Options.PartialFilterExpression)
	}
	assert.True(t, found)
}

func TestLockIndexExpires(t *testing.T) {
	assert.Len(t, LocksIndexes, 1)
	assert.Equal(t, int32(0), *LocksIndexes[0].Options.ExpireAfterSeconds)
}

func TestBookingValidatorEnumsMatchModel(t *testing.T) {
	schema := validators.BookingValidator["$jsonSchema"].(bson.M)
	props := schema["properties"].(bson.M)
	enum := props["rental_status"].(bson.M)["enum"].([]any)
	assert.ElementsMatch(t, []any{"pending", "confirmed", "active", "completed", "cancelled", "rejected"}, enum)

	shipping := props["shipping_status"].(bson.M)["enum"].([]any)
	assert.Contains(t, shipping, string(model.ShippingInTransitToOwner))
	assert.Contains(t, shipping, nil)
}
