package models

import "time"

// Professor represents a faculty member eligible to supervise projects
// and sit on defense juries.
type Professor struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Availability is loaded from professor_availability; it is never
	// mutated by the scheduler.
	Availability []AvailabilityWindow `db:"-" json:"availability,omitempty"`
}

// AvailabilityWindow is one recurring weekly window during which the
// professor is free. Multiple windows per weekday are allowed and
// overlaps are not deduplicated.
type AvailabilityWindow struct {
	ID          string  `db:"id" json:"id,omitempty"`
	ProfessorID string  `db:"professor_id" json:"-"`
	Day         Weekday `db:"day_of_week" json:"day"`
	StartTime   Minutes `db:"start_time" json:"start_time"`
	EndTime     Minutes `db:"end_time" json:"end_time"`
}

// Covers reports whether the window fully contains [start, end) on the
// given weekday. Partial overlap does not count.
func (w AvailabilityWindow) Covers(day Weekday, start, end Minutes) bool {
	return w.Day == day && w.StartTime <= start && w.EndTime >= end
}

// ProfessorFilter captures filtering options for listing professors.
type ProfessorFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
}
