package model

import "time"

// Block is an administrative exclusion over a resource's time window,
// independent of any booking. Creation must pass the same conflict check
// as an exclusive booking; once present it rejects new booking requests.
type Block struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	ResourceID string     `json:"resource_id" bson:"resource_id" validate:"required"`
	Window     TimeWindow `json:"window" bson:"window" validate:"required"`
	Reason     string     `json:"reason" bson:"reason" validate:"required,min=2,max=200"`
	CreatedBy  string     `json:"created_by" bson:"created_by" validate:"required,min=1,max=100"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BlockRequest is the inbound DTO for creating an administrative block.
type BlockRequest struct {
	ResourceID string     `json:"resource_id" validate:"required"`
	Window     TimeWindow `json:"window" validate:"required"`
	Reason     string     `json:"reason" validate:"required,min=2,max=200"`
	Actor      string     `json:"actor" validate:"required,min=1,max=100"`
}
