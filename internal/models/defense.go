package models

import "time"

// Defense is a scheduled thesis-defense session: one project, one day,
// one time slot, one room, one jury (president + reporter) plus the
// project's supervisor. The generator replaces the full set for a date
// window on every run.
type Defense struct {
	ID              string    `db:"id" json:"id"`
	ProjectID       string    `db:"project_id" json:"project_id"`
	Date            time.Time `db:"defense_date" json:"date"`
	StartTime       Minutes   `db:"start_time" json:"start_time"`
	EndTime         Minutes   `db:"end_time" json:"end_time"`
	RoomID          string    `db:"room_id" json:"room_id"`
	JuryPresidentID string    `db:"jury_president_id" json:"jury_president_id"`
	JuryReporterID  string    `db:"jury_reporter_id" json:"jury_reporter_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	// Display fields populated by list queries.
	ProjectTitle      string `db:"project_title" json:"project_title,omitempty"`
	StudentName       string `db:"student_name" json:"student_name,omitempty"`
	SupervisorID      string `db:"supervisor_id" json:"supervisor_id,omitempty"`
	SupervisorName    string `db:"supervisor_name" json:"supervisor_name,omitempty"`
	RoomName          string `db:"room_name" json:"room_name,omitempty"`
	JuryPresidentName string `db:"jury_president_name" json:"jury_president_name,omitempty"`
	JuryReporterName  string `db:"jury_reporter_name" json:"jury_reporter_name,omitempty"`
}

// DefenseFilter captures read filters for the timetable view.
type DefenseFilter struct {
	From        *time.Time
	To          *time.Time
	ProfessorID string
	StudentID   string
	RoomID      string
}
