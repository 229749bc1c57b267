package model

import "time"

type Extension struct {
	ID               string          `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID        string          `json:"booking_id" bson:"booking_id"`
	OriginalEndDate  Date            `json:"original_end_date" bson:"original_end_date"`
	RequestedEndDate Date            `json:"requested_end_date" bson:"requested_end_date"`
	Status           ExtensionStatus `json:"extension_status" bson:"extension_status"`
	AppliedAt        *time.Time      `json:"applied_at,omitempty" bson:"applied_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" bson:"updated_at"`
}
