package model

import "time"

// WaitlistEntry is a party waiting for capacity on a capacity-bounded
// resource window. Entries form a FIFO queue ordered by JoinedAt; they
// leave the queue only through promotion or explicit withdrawal.
type WaitlistEntry struct {
	PartyID    string     `json:"party_id" bson:"party_id" validate:"required"`
	ResourceID string     `json:"resource_id" bson:"resource_id" validate:"required"`
	Window     TimeWindow `json:"window" bson:"window" validate:"required"`
	Name       string     `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Contact    string     `json:"contact" bson:"contact" validate:"required"`
	JoinedAt   time.Time  `json:"joined_at" bson:"joined_at" validate:"omitempty"`
}

// WaitlistRequest is the inbound DTO for joining a waitlist.
type WaitlistRequest struct {
	ResourceID string     `json:"resource_id" validate:"required"`
	PartyID    string     `json:"party_id" validate:"required"`
	Window     TimeWindow `json:"window" validate:"required"`
	Name       string     `json:"name" validate:"required,min=2,max=100"`
	Contact    string     `json:"contact" validate:"required"`
	Actor      string     `json:"actor" validate:"required,min=1,max=100"`
}
