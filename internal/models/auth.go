package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserInfo is the public projection of a user returned after login.
type UserInfo struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        UserRole `json:"role"`
	ProfessorID *string  `json:"professor_id,omitempty"`
	StudentID   *string  `json:"student_id,omitempty"`
}

// LoginResponse wraps the issued token and user profile.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// JWTClaims are the custom claims embedded in access tokens.
type JWTClaims struct {
	UserID      string   `json:"uid"`
	Role        UserRole `json:"role"`
	ProfessorID *string  `json:"professor_id,omitempty"`
	StudentID   *string  `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}
