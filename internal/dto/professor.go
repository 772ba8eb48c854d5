package dto

// CreateProfessorRequest creates a directory record for a professor.
type CreateProfessorRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
}

// UpdateProfessorRequest updates directory fields.
type UpdateProfessorRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
}

// AvailabilityWindowRequest is one weekly recurring free window.
type AvailabilityWindowRequest struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

// UpdateAvailabilityRequest replaces the professor's declared windows.
type UpdateAvailabilityRequest struct {
	Availability []AvailabilityWindowRequest `json:"availability" validate:"required,dive"`
}
