package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"resource_id",
			"owner_id",
			"window",
			"status",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"window": windowSchema,

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"confirmed",
					"cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BlockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"resource_id",
			"window",
			"reason",
			"created_by",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"window": windowSchema,

			"reason": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"created_by": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var WaitlistValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"party_id",
			"resource_id",
			"window",
			"name",
			"joined_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"party_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"resource_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"window": windowSchema,

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"contact": bson.M{
				"bsonType": "string",
			},

			"joined_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
