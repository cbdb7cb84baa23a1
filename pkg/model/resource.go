package model

import "time"

type ResourceKind string

const (
	// ResourceRoom is exclusive-use: one confirmed booking at a time.
	ResourceRoom ResourceKind = "room"
	// ResourceEvent is capacity-bounded: up to MaxConcurrent parties share
	// the same fixed window, with an optional waitlist.
	ResourceEvent ResourceKind = "event"
)

// BookingPolicy tells the availability engine how to treat a resource.
// Sourced from resource configuration; read-only to the engine.
type BookingPolicy struct {
	CapacityBounded bool `json:"capacity_bounded" bson:"capacity_bounded"`
	AllowWaitlist   bool `json:"allow_waitlist" bson:"allow_waitlist"`
	MaxConcurrent   int  `json:"max_concurrent" bson:"max_concurrent"`
}

// ExclusivePolicy is the policy applied to rooms and to administrative
// block creation: any overlap with a confirmed booking is a conflict.
func ExclusivePolicy() BookingPolicy {
	return BookingPolicy{CapacityBounded: false, AllowWaitlist: false, MaxConcurrent: 1}
}

// Resource is a bookable entity in the coworking catalog. The capacity
// ceiling is set once at creation and never reduced afterwards.
type Resource struct {
	ID            string       `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string       `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Site          string       `json:"site" bson:"site" validate:"required,min=2,max=100"`
	Kind          ResourceKind `json:"kind" bson:"kind" validate:"required,oneof=room event"`
	MaxConcurrent int          `json:"max_concurrent" bson:"max_concurrent" validate:"required,min=1,max=500"`
	AllowWaitlist bool         `json:"allow_waitlist" bson:"allow_waitlist"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Policy derives the engine-facing booking policy from the resource kind.
func (r *Resource) Policy() BookingPolicy {
	if r.Kind == ResourceEvent {
		return BookingPolicy{
			CapacityBounded: true,
			AllowWaitlist:   r.AllowWaitlist,
			MaxConcurrent:   r.MaxConcurrent,
		}
	}
	return ExclusivePolicy()
}

// ResourceUpdate carries partial catalog updates. Kind and MaxConcurrent
// are deliberately absent: the capacity ceiling is immutable after creation.
type ResourceUpdate struct {
	Name          string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Site          string `json:"site,omitempty" validate:"omitempty,min=2,max=100"`
	AllowWaitlist *bool  `json:"allow_waitlist,omitempty"`
	Description   string `json:"description,omitempty" validate:"omitempty,max=500"`
}
