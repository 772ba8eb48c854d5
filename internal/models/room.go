package models

import "time"

// Room represents a defense room. Rooms flagged unavailable are
// excluded from scheduling entirely.
type Room struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Capacity    int       `db:"capacity" json:"capacity"`
	Building    string    `db:"building" json:"building"`
	Floor       int       `db:"floor" json:"floor"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Building    string
	IsAvailable *bool
	Page        int
	PageSize    int
}
