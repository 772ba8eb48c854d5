package service

import (
	"fmt"
	"time"

	"github.com/pfe-platform/defense-api/internal/models"
)

// Slot is one fixed defense time slot within a day.
type Slot struct {
	Start models.Minutes
	End   models.Minutes
}

// defenseSlots is the fixed daily slot grid: ten 30-minute sessions
// separated by 15-minute breaks, with a lunch gap between 11:45 and
// 13:00. Slots are tried in this order.
var defenseSlots = []Slot{
	{models.MustClock("09:00"), models.MustClock("09:30")},
	{models.MustClock("09:45"), models.MustClock("10:15")},
	{models.MustClock("10:30"), models.MustClock("11:00")},
	{models.MustClock("11:15"), models.MustClock("11:45")},
	{models.MustClock("13:00"), models.MustClock("13:30")},
	{models.MustClock("13:45"), models.MustClock("14:15")},
	{models.MustClock("14:30"), models.MustClock("15:00")},
	{models.MustClock("15:15"), models.MustClock("15:45")},
	{models.MustClock("16:00"), models.MustClock("16:30")},
	{models.MustClock("16:45"), models.MustClock("17:15")},
}

// Placement is one planned defense. The planner produces plain values;
// identifiers and timestamps are assigned when the orchestrator
// persists them.
type Placement struct {
	Project   models.Project
	Date      time.Time
	Slot      Slot
	Room      models.Room
	President models.Professor
	Reporter  models.Professor
}

// NotificationIntent describes a message owed to one participant of a
// placed defense. Exactly one of ProfessorID and StudentID is set; the
// dispatcher resolves it to a user account.
type NotificationIntent struct {
	ProfessorID string
	StudentID   string
	Title       string
	Message     string
	Link        string
}

// defensePlanner places defenses for a generation run. It is a pure
// in-memory structure: conflicts are checked against its own placements
// only, which is sound because every run purges the target date window
// before planning.
type defensePlanner struct {
	professors []models.Professor
	rooms      []models.Room
	placements []Placement
}

// newDefensePlanner builds a planner over the candidate jury pool and
// room list. Both slices keep their input order; the planner always
// picks the first candidate that fits.
func newDefensePlanner(professors []models.Professor, rooms []models.Room) *defensePlanner {
	return &defensePlanner{professors: professors, rooms: rooms}
}

// slotsOverlap reports whether two half-open intervals collide:
// partial overlap in either direction, or one interval containing the
// other.
func slotsOverlap(existingStart, existingEnd, start, end models.Minutes) bool {
	if existingStart < end && existingEnd > start {
		return true
	}
	if existingStart >= start && existingEnd <= end {
		return true
	}
	if start >= existingStart && end <= existingEnd {
		return true
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// professorAvailable reports whether any of the professor's recurring
// windows fully contains the slot on the given weekday.
func professorAvailable(professor models.Professor, day models.Weekday, slot Slot) bool {
	for _, window := range professor.Availability {
		if window.Covers(day, slot.Start, slot.End) {
			return true
		}
	}
	return false
}

// professorBusy reports whether the professor already participates, in
// any role, in a placement overlapping the slot on the same date.
func (p *defensePlanner) professorBusy(professorID string, date time.Time, slot Slot) bool {
	for _, placed := range p.placements {
		if !sameDay(placed.Date, date) {
			continue
		}
		if placed.President.ID != professorID &&
			placed.Reporter.ID != professorID &&
			placed.Project.SupervisorID != professorID {
			continue
		}
		if slotsOverlap(placed.Slot.Start, placed.Slot.End, slot.Start, slot.End) {
			return true
		}
	}
	return false
}

func (p *defensePlanner) roomBusy(roomID string, date time.Time, slot Slot) bool {
	for _, placed := range p.placements {
		if !sameDay(placed.Date, date) {
			continue
		}
		if placed.Room.ID != roomID {
			continue
		}
		if slotsOverlap(placed.Slot.Start, placed.Slot.End, slot.Start, slot.End) {
			return true
		}
	}
	return false
}

// selectJury picks the first two professors, in pool order, who are not
// the project's supervisor, are available for the slot, and are not
// already booked. The first becomes president, the second reporter.
func (p *defensePlanner) selectJury(project models.Project, date time.Time, slot Slot) (president, reporter models.Professor, ok bool) {
	day := models.WeekdayOf(date)
	var jury []models.Professor
	for _, professor := range p.professors {
		if professor.ID == project.SupervisorID {
			continue
		}
		if !professorAvailable(professor, day, slot) {
			continue
		}
		if p.professorBusy(professor.ID, date, slot) {
			continue
		}
		jury = append(jury, professor)
		if len(jury) == 2 {
			return jury[0], jury[1], true
		}
	}
	return models.Professor{}, models.Professor{}, false
}

// selectRoom picks the first room free for the slot, in list order.
func (p *defensePlanner) selectRoom(date time.Time, slot Slot) (models.Room, bool) {
	for _, room := range p.rooms {
		if !p.roomBusy(room.ID, date, slot) {
			return room, true
		}
	}
	return models.Room{}, false
}

// supervisorAvailable reports whether the project's supervisor has a
// declared window covering the slot. A supervisor missing from the
// pool has no windows and is never available.
func (p *defensePlanner) supervisorAvailable(supervisorID string, day models.Weekday, slot Slot) bool {
	for _, professor := range p.professors {
		if professor.ID == supervisorID {
			return professorAvailable(professor, day, slot)
		}
	}
	return false
}

// placeProject tries each slot in grid order and records the first one
// with a complete jury and a free room. The supervisor must have a
// window covering the slot and be free of other participations; jury
// membership alone never double-books them.
func (p *defensePlanner) placeProject(project models.Project, date time.Time) (Placement, bool) {
	day := models.WeekdayOf(date)
	for _, slot := range defenseSlots {
		if !p.supervisorAvailable(project.SupervisorID, day, slot) {
			continue
		}
		if p.professorBusy(project.SupervisorID, date, slot) {
			continue
		}
		president, reporter, ok := p.selectJury(project, date, slot)
		if !ok {
			continue
		}
		room, ok := p.selectRoom(date, slot)
		if !ok {
			continue
		}
		placement := Placement{
			Project:   project,
			Date:      date,
			Slot:      slot,
			Room:      room,
			President: president,
			Reporter:  reporter,
		}
		p.placements = append(p.placements, placement)
		return placement, true
	}
	return Placement{}, false
}

// ScheduleDay walks the remaining projects in order and places as many
// as fit on the given date. It returns the day's placements and the
// projects still unplaced; the input slice is never mutated.
func (p *defensePlanner) ScheduleDay(date time.Time, remaining []models.Project) ([]Placement, []models.Project) {
	var placed []Placement
	var leftover []models.Project
	for _, project := range remaining {
		placement, ok := p.placeProject(project, date)
		if !ok {
			leftover = append(leftover, project)
			continue
		}
		placed = append(placed, placement)
	}
	return placed, leftover
}

// notificationIntents derives the four messages owed for one placement:
// jury president, jury reporter, supervisor, and the student.
func notificationIntents(placement Placement) []NotificationIntent {
	date := placement.Date.Format("2006-01-02")
	start := placement.Slot.Start.Clock()
	title := placement.Project.Title

	intents := []NotificationIntent{
		{
			ProfessorID: placement.President.ID,
			Title:       "Jury Assignment",
			Message:     fmt.Sprintf("You have been assigned as jury president for the defense of %q on %s at %s in room %s.", title, date, start, placement.Room.Name),
			Link:        "/schedule",
		},
		{
			ProfessorID: placement.Reporter.ID,
			Title:       "Jury Assignment",
			Message:     fmt.Sprintf("You have been assigned as jury reporter for the defense of %q on %s at %s in room %s.", title, date, start, placement.Room.Name),
			Link:        "/schedule",
		},
		{
			ProfessorID: placement.Project.SupervisorID,
			Title:       "Defense Scheduled",
			Message:     fmt.Sprintf("The defense of your supervised project %q has been scheduled on %s at %s in room %s.", title, date, start, placement.Room.Name),
			Link:        "/schedule",
		},
		{
			StudentID: placement.Project.StudentID,
			Title:     "Defense Scheduled",
			Message:   fmt.Sprintf("Your thesis defense has been scheduled on %s at %s in room %s.", date, start, placement.Room.Name),
			Link:      "/schedule",
		},
	}
	return intents
}
