package validators

import (
	"camrent/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var ExtensionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"booking_id", "original_end_date", "requested_end_date", "extension_status", "created_at"},
		"properties": bson.M{
			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"original_end_date":  bson.M{"bsonType": "date"},
			"requested_end_date": bson.M{"bsonType": "date"},
			"extension_status": bson.M{
				"bsonType": "string",
				"enum":     tokens(model.ExtensionPending, model.ExtensionApproved, model.ExtensionRejected),
			},
			"applied_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
