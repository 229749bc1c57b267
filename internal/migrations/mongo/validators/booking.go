package validators

import (
	"camrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"item_id",
			"start_date",
			"end_date",
			"rental_status",
			"shipping_status",
			"booking_origin",
			"rental_days",
			"price_per_day_cents",
			"total_price_cents",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"item_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"start_date": bson.M{"bsonType": "date"},
			"end_date":   bson.M{"bsonType": "date"},

			"rental_status": bson.M{
				"bsonType": "string",
				"enum": tokens(
					model.RentalPending, model.RentalConfirmed, model.RentalActive,
					model.RentalCompleted, model.RentalCancelled, model.RentalRejected,
				),
			},

			// "none" is written for new documents; null is tolerated for rows
			// imported before the field existed.
			"shipping_status": bson.M{
				"bsonType": []string{"string", "null"},
				"enum": append(tokens(
					model.ShippingNone, model.ShippingReadyToShip, model.ShippingInTransitToUser,
					model.ShippingDelivered, model.ShippingReturnScheduled, model.ShippingInTransitToOwner,
					model.ShippingReturned,
				), nil),
			},

			"booking_origin": bson.M{
				"bsonType": "string",
				"enum":     tokens(model.OriginCustomerSubmitted, model.OriginStaffEntered),
			},

			"rental_days": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"price_per_day_cents": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"total_price_cents": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"rejection_expiry": bson.M{"bsonType": "date"},

			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

func tokens[T ~string](values ...T) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
