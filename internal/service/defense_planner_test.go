package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/models"
)

var monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func window(day models.Weekday, start, end string) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		Day:       day,
		StartTime: models.MustClock(start),
		EndTime:   models.MustClock(end),
	}
}

func weekdayWindows(start, end string) []models.AvailabilityWindow {
	days := []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}
	windows := make([]models.AvailabilityWindow, 0, len(days))
	for _, day := range days {
		windows = append(windows, window(day, start, end))
	}
	return windows
}

func testProfessor(id string, windows []models.AvailabilityWindow) models.Professor {
	return models.Professor{ID: id, FullName: "Prof " + id, Availability: windows}
}

func testProject(id, studentID, supervisorID string) models.Project {
	return models.Project{
		ID:           id,
		Title:        "Project " + id,
		StudentID:    studentID,
		SupervisorID: supervisorID,
		Student:      &models.Student{ID: studentID, FullName: "Student " + studentID},
	}
}

func testRoom(id, name string) models.Room {
	return models.Room{ID: id, Name: name, IsAvailable: true}
}

func TestSlotsOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical", "09:00", "09:30", "09:00", "09:30", true},
		{"partial overlap", "09:00", "09:30", "09:15", "09:45", true},
		{"existing contains new", "09:00", "12:00", "09:45", "10:15", true},
		{"new contains existing", "09:45", "10:15", "09:00", "12:00", true},
		{"back to back", "09:00", "09:30", "09:30", "10:00", false},
		{"disjoint", "09:00", "09:30", "13:00", "13:30", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slotsOverlap(
				models.MustClock(tc.aStart), models.MustClock(tc.aEnd),
				models.MustClock(tc.bStart), models.MustClock(tc.bEnd))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAvailabilityRequiresFullContainment(t *testing.T) {
	professor := testProfessor("p1", []models.AvailabilityWindow{window(models.Monday, "09:00", "10:00")})

	assert.True(t, professorAvailable(professor, models.Monday, Slot{models.MustClock("09:00"), models.MustClock("09:30")}))
	// Partial overlap is not availability: the 09:45-10:15 slot spills
	// past the 10:00 window end.
	assert.False(t, professorAvailable(professor, models.Monday, Slot{models.MustClock("09:45"), models.MustClock("10:15")}))
	assert.False(t, professorAvailable(professor, models.Tuesday, Slot{models.MustClock("09:00"), models.MustClock("09:30")}))
}

func TestPlannerPlacesFirstFit(t *testing.T) {
	professors := []models.Professor{
		testProfessor("p1", weekdayWindows("08:00", "18:00")),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
	}
	rooms := []models.Room{testRoom("r1", "A101")}
	planner := newDefensePlanner(professors, rooms)

	placed, leftover := planner.ScheduleDay(monday, []models.Project{testProject("proj1", "s1", "p1")})
	require.Len(t, placed, 1)
	assert.Empty(t, leftover)

	placement := placed[0]
	assert.Equal(t, "09:00", placement.Slot.Start.Clock())
	assert.Equal(t, "09:30", placement.Slot.End.Clock())
	assert.Equal(t, "r1", placement.Room.ID)
	assert.Equal(t, "p2", placement.President.ID)
	assert.Equal(t, "p3", placement.Reporter.ID)
}

func TestPlannerExcludesSupervisorFromJury(t *testing.T) {
	professors := []models.Professor{
		testProfessor("p1", weekdayWindows("08:00", "18:00")),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})

	// p1 comes first in pool order but supervises the project.
	placed, _ := planner.ScheduleDay(monday, []models.Project{testProject("proj1", "s1", "p1")})
	require.Len(t, placed, 1)
	assert.NotEqual(t, "p1", placed[0].President.ID)
	assert.NotEqual(t, "p1", placed[0].Reporter.ID)
}

func TestPlannerRequiresSupervisorWindow(t *testing.T) {
	// Supervisor p1 is only free on Tuesday; the jury is free all week.
	professors := []models.Professor{
		testProfessor("p1", []models.AvailabilityWindow{window(models.Tuesday, "08:00", "18:00")}),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})

	placed, leftover := planner.ScheduleDay(monday, []models.Project{testProject("proj1", "s1", "p1")})
	require.Empty(t, placed)
	require.Len(t, leftover, 1)

	tuesday := monday.AddDate(0, 0, 1)
	placed, leftover = planner.ScheduleDay(tuesday, leftover)
	require.Len(t, placed, 1)
	assert.Empty(t, leftover)
	assert.Equal(t, "proj1", placed[0].Project.ID)
}

func TestPlannerIntersectsSupervisorAndJuryWindows(t *testing.T) {
	// Supervisor free 09:00-12:00, jury free 09:00-10:00. Only the first
	// slot sits inside every window; 09:45-10:15 spills past the jury's.
	professors := []models.Professor{
		testProfessor("p1", []models.AvailabilityWindow{window(models.Monday, "09:00", "12:00")}),
		testProfessor("p2", []models.AvailabilityWindow{window(models.Monday, "09:00", "10:00")}),
		testProfessor("p3", []models.AvailabilityWindow{window(models.Monday, "09:00", "10:00")}),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})

	placed, leftover := planner.ScheduleDay(monday, []models.Project{testProject("proj1", "s1", "p1")})
	require.Len(t, placed, 1)
	assert.Empty(t, leftover)
	assert.Equal(t, "09:00", placed[0].Slot.Start.Clock())
	assert.Equal(t, "09:30", placed[0].Slot.End.Clock())
}

func TestPlannerSkipsSupervisorWithoutWindows(t *testing.T) {
	// The supervisor declared no availability at all, so the project
	// stays unscheduled no matter how free the jury is.
	professors := []models.Professor{
		testProfessor("p1", nil),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})

	placed, leftover := planner.ScheduleDay(monday, []models.Project{testProject("proj1", "s1", "p1")})
	require.Empty(t, placed)
	require.Len(t, leftover, 1)
}

func TestPlannerAvoidsDoubleBookingAcrossRoles(t *testing.T) {
	professors := []models.Professor{
		testProfessor("p1", weekdayWindows("08:00", "18:00")),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101"), testRoom("r2", "A102")})

	projects := []models.Project{
		testProject("proj1", "s1", "p1"),
		testProject("proj2", "s2", "p2"),
	}
	placed, leftover := planner.ScheduleDay(monday, projects)
	require.Len(t, placed, 2)
	assert.Empty(t, leftover)

	// With three professors every defense consumes the whole pool, so
	// the second project must land in a later slot even with a free
	// room. Supervising counts as participation.
	assert.Equal(t, "09:00", placed[0].Slot.Start.Clock())
	assert.Equal(t, "09:45", placed[1].Slot.Start.Clock())
}

func TestPlannerRespectsRoomCapacityPerSlot(t *testing.T) {
	professors := []models.Professor{
		testProfessor("p1", weekdayWindows("08:00", "18:00")),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
		testProfessor("p4", weekdayWindows("08:00", "18:00")),
		testProfessor("p5", weekdayWindows("08:00", "18:00")),
		testProfessor("p6", weekdayWindows("08:00", "18:00")),
	}

	projects := []models.Project{
		testProject("proj1", "s1", "p1"),
		testProject("proj2", "s2", "p4"),
	}

	// Two rooms: both defenses share the first slot.
	twoRooms := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101"), testRoom("r2", "A102")})
	placed, _ := twoRooms.ScheduleDay(monday, projects)
	require.Len(t, placed, 2)
	assert.Equal(t, placed[0].Slot.Start, placed[1].Slot.Start)
	assert.NotEqual(t, placed[0].Room.ID, placed[1].Room.ID)

	// One room: the second defense shifts to the next slot.
	oneRoom := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})
	placed, _ = oneRoom.ScheduleDay(monday, projects)
	require.Len(t, placed, 2)
	assert.Equal(t, "09:00", placed[0].Slot.Start.Clock())
	assert.Equal(t, "09:45", placed[1].Slot.Start.Clock())
}

func TestPlannerLeavesUnplaceableProjects(t *testing.T) {
	// Jury candidates are only free for the first slot, so a second
	// project has nowhere to go.
	limited := []models.AvailabilityWindow{window(models.Monday, "09:00", "09:30")}
	professors := []models.Professor{
		testProfessor("p1", limited),
		testProfessor("p2", limited),
		testProfessor("p3", limited),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})

	projects := []models.Project{
		testProject("proj1", "s1", "p1"),
		testProject("proj2", "s2", "p1"),
	}
	placed, leftover := planner.ScheduleDay(monday, projects)
	require.Len(t, placed, 1)
	require.Len(t, leftover, 1)
	assert.Equal(t, "proj2", leftover[0].ID)
	// Original ordering survives; the input slice is untouched.
	assert.Equal(t, "proj1", projects[0].ID)
}

func TestPlannerKeepsStateAcrossDays(t *testing.T) {
	professors := []models.Professor{
		testProfessor("p1", weekdayWindows("09:00", "09:30")),
		testProfessor("p2", weekdayWindows("09:00", "09:30")),
		testProfessor("p3", weekdayWindows("09:00", "09:30")),
	}
	planner := newDefensePlanner(professors, []models.Room{testRoom("r1", "A101")})

	projects := []models.Project{
		testProject("proj1", "s1", "p1"),
		testProject("proj2", "s2", "p1"),
	}
	placed, leftover := planner.ScheduleDay(monday, projects)
	require.Len(t, placed, 1)

	tuesday := monday.AddDate(0, 0, 1)
	placed, leftover = planner.ScheduleDay(tuesday, leftover)
	require.Len(t, placed, 1)
	assert.Empty(t, leftover)
	assert.Equal(t, "proj2", placed[0].Project.ID)
	assert.Equal(t, "09:00", placed[0].Slot.Start.Clock())
}

func TestNotificationIntentsCoverAllParticipants(t *testing.T) {
	placement := Placement{
		Project:   testProject("proj1", "s1", "p1"),
		Date:      monday,
		Slot:      defenseSlots[0],
		Room:      testRoom("r1", "A101"),
		President: testProfessor("p2", nil),
		Reporter:  testProfessor("p3", nil),
	}

	intents := notificationIntents(placement)
	require.Len(t, intents, 4)

	var professorIDs []string
	var studentIDs []string
	for _, intent := range intents {
		if intent.ProfessorID != "" {
			professorIDs = append(professorIDs, intent.ProfessorID)
		}
		if intent.StudentID != "" {
			studentIDs = append(studentIDs, intent.StudentID)
		}
		assert.Equal(t, "/schedule", intent.Link)
		assert.NotEmpty(t, intent.Message)
	}
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, professorIDs)
	assert.Equal(t, []string{"s1"}, studentIDs)
}
