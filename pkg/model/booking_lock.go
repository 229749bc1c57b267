package model

import "time"

// BookingLock is an advisory per-item lock held while a booking is checked
// for conflicts and committed. The _id is the item id, so a second insert
// for the same item fails with a duplicate key error.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
