package dto

// CreateStudentRequest creates a student directory record.
type CreateStudentRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	StudentNumber string `json:"student_number" validate:"required"`
	Program       string `json:"program" validate:"required"`
}

// UpdateStudentRequest updates a student directory record.
type UpdateStudentRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	StudentNumber string `json:"student_number" validate:"required"`
	Program       string `json:"program" validate:"required"`
}
