package validators

import "go.mongodb.org/mongo-driver/bson"

var MemberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
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

			"email": bson.M{
				"bsonType": "string",
				"pattern":  "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$",
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  "^\\+[1-9]\\d{1,14}$",
			},

			"company": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
