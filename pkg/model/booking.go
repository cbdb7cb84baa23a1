package model

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed or cancelled claim on a resource's time window.
// Owned by the ledger of its resource; cancellation is a state transition,
// never a delete, so booking history stays intact.
type Booking struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty"`
	ResourceID string        `json:"resource_id" bson:"resource_id" validate:"required"`
	OwnerID    string        `json:"owner_id" bson:"owner_id" validate:"required"`
	Window     TimeWindow    `json:"window" bson:"window" validate:"required"`
	Status     BookingStatus `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the inbound DTO for a booking attempt. PartyName
// and Contact are optional; they seed the waitlist entry when the
// request lands on a full capacity-bounded resource.
type BookingRequest struct {
	ResourceID string     `json:"resource_id" validate:"required"`
	OwnerID    string     `json:"owner_id" validate:"required"`
	Window     TimeWindow `json:"window" validate:"required"`
	Actor      string     `json:"actor" validate:"required,min=1,max=100"`
	PartyName  string     `json:"party_name,omitempty" validate:"omitempty,min=2,max=100"`
	Contact    string     `json:"contact,omitempty" validate:"omitempty,max=200"`
}
