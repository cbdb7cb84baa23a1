package validators

import "go.mongodb.org/mongo-driver/bson"

// windowSchema validates the embedded time window document. Dates are
// "YYYY-MM-DD" and times "HH:MM"; windows never cross midnight.
var windowSchema = bson.M{
	"bsonType": "object",
	"required": []string{"date", "start", "end"},
	"properties": bson.M{
		"date": bson.M{
			"bsonType": "string",
			"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
		},
		"start": bson.M{
			"bsonType": "string",
			"pattern":  "^\\d{2}:\\d{2}$",
		},
		"end": bson.M{
			"bsonType": "string",
			"pattern":  "^\\d{2}:\\d{2}$",
		},
	},
}
