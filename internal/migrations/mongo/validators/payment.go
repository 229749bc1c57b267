package validators

import (
	"camrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"booking_id", "extension_id", "amount_cents", "payment_status", "created_at"},
		"properties": bson.M{
			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			// null marks the booking's primary payment
			"extension_id": bson.M{"bsonType": []string{"string", "null"}},
			"amount_cents": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"payment_status": bson.M{
				"bsonType": "string",
				"enum":     tokens(model.PaymentPending, model.PaymentSubmitted, model.PaymentRejected, model.PaymentVerified),
			},
			"receipt_ref": bson.M{"bsonType": "string", "maxLength": 512},
			"created_at":  bson.M{"bsonType": "date"},
		},
	},
}
