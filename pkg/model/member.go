package model

import "time"

// Member is a coworking-space member in the directory service.
type Member struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Phone     string    `json:"phone" bson:"phone" validate:"omitempty,e164"`
	Company   string    `json:"company,omitempty" bson:"company,omitempty" validate:"omitempty,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type MemberUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,e164"`
	Company string `json:"company,omitempty" validate:"omitempty,max=100"`
}
