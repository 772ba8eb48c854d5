package models

import "time"

// Student represents an enrolled student record.
type Student struct {
	ID            string    `db:"id" json:"id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Email         string    `db:"email" json:"email"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	Program       string    `db:"program" json:"program"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures filtering options for listing students.
type StudentFilter struct {
	Search   string
	Program  string
	Page     int
	PageSize int
}
