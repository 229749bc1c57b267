package validators

import "go.mongodb.org/mongo-driver/bson"

// ItemValidator checks tier shape only. Contiguity across tiers cannot be
// expressed in $jsonSchema and is enforced by the application.
var ItemValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "name", "tiers"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^[a-z0-9][a-z0-9_\\-]{0,63}$",
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},
			"tiers": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"min_days", "price_per_day_cents"},
					"properties": bson.M{
						"min_days":            bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
						"max_days":            bson.M{"bsonType": []string{"int", "long", "null"}},
						"price_per_day_cents": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
					},
				},
			},
		},
	},
}
