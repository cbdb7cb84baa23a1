package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"site",
			"kind",
			"max_concurrent",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"site": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"kind": bson.M{
				"bsonType": "string",
				"enum": []string{
					"room",
					"event",
				},
			},

			"max_concurrent": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"allow_waitlist": bson.M{
				"bsonType": "bool",
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
