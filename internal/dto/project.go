package dto

// CreateProjectRequest registers a thesis project for a student.
type CreateProjectRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	StudentID    string `json:"student_id" validate:"required,uuid4"`
	SupervisorID string `json:"supervisor_id" validate:"required,uuid4"`
}

// UpdateProjectRequest updates a thesis project.
type UpdateProjectRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	StudentID    string `json:"student_id" validate:"required,uuid4"`
	SupervisorID string `json:"supervisor_id" validate:"required,uuid4"`
}
