package models

import "time"

// Project represents a thesis project awaiting a defense. At most one
// project exists per student.
type Project struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	StudentID    string    `db:"student_id" json:"student_id"`
	SupervisorID string    `db:"supervisor_id" json:"supervisor_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Populated on reads that join the directory tables.
	Student    *Student   `db:"-" json:"student,omitempty"`
	Supervisor *Professor `db:"-" json:"supervisor,omitempty"`
}

// ProjectFilter captures filtering options for listing projects.
type ProjectFilter struct {
	Search       string
	SupervisorID string
	Page         int
	PageSize     int
}
