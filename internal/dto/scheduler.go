package dto

import "github.com/pfe-platform/defense-api/internal/models"

// DateRange bounds a multi-day generation run, inclusive on both ends.
type DateRange struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

// GenerateScheduleRequest selects single-day or range mode. Exactly one
// of Date and DateRange must be set.
type GenerateScheduleRequest struct {
	Date      string     `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DateRange *DateRange `json:"dateRange" validate:"omitempty"`
}

// GenerateScheduleResponse summarises a generation run. Unscheduled
// projects are expected data under tight constraints, not an error.
type GenerateScheduleResponse struct {
	Defenses            []models.Defense `json:"defenses"`
	TotalDefenses       int              `json:"totalDefenses"`
	TotalDays           int              `json:"totalDays"`
	UnscheduledProjects int              `json:"unscheduledProjects"`
}
