package validator

import (
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

// RegisterRequest represents the request structure for account registration
type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// LoginRequest represents the request structure for credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the request structure for profile updates.
// Role and password are not editable through this endpoint.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

// CreateExamRequest represents the request structure for creating exams
type CreateExamRequest struct {
	Name           string    `json:"name" validate:"required,min=1,max=200"`
	Course         string    `json:"course" validate:"required,min=1,max=200"`
	Description    *string   `json:"description" validate:"omitempty,max=1000"`
	Date           time.Time `json:"date" validate:"required"`
	Duration       int       `json:"duration" validate:"required,exam_duration"`
	TotalQuestions int       `json:"total_questions" validate:"required,min=1"`
	IsActive       *bool     `json:"is_active"`
}

// UpdateExamRequest represents the request structure for partial exam updates
type UpdateExamRequest struct {
	Name           *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Course         *string    `json:"course" validate:"omitempty,min=1,max=200"`
	Description    *string    `json:"description" validate:"omitempty,max=1000"`
	Date           *time.Time `json:"date"`
	Duration       *int       `json:"duration" validate:"omitempty,exam_duration"`
	TotalQuestions *int       `json:"total_questions" validate:"omitempty,min=1"`
	IsActive       *bool      `json:"is_active"`
}

// CreateEnrollmentRequest represents a student enrolling into an exam
type CreateEnrollmentRequest struct {
	ExamID uint `json:"exam_id" validate:"required"`
}

// UpdateEnrollmentRequest represents progress updates on an enrollment
type UpdateEnrollmentRequest struct {
	Status               *models.EnrollmentStatus `json:"status" validate:"omitempty,enrollment_status"`
	StartTime            *time.Time               `json:"start_time"`
	EndTime              *time.Time               `json:"end_time"`
	CompletionPercentage *int                     `json:"completion_percentage" validate:"omitempty,min=0,max=100"`
}

// CreateAlertRequest represents an alert reported by the detector
type CreateAlertRequest struct {
	ExamID    uint           `json:"exam_id" validate:"required"`
	StudentID uint           `json:"student_id" validate:"required"`
	Type      string         `json:"type" validate:"required,min=1,max=100"`
	Details   datatypes.JSON `json:"details"`
}

// UpdateAlertStatusRequest represents a proctor's review decision
type UpdateAlertStatusRequest struct {
	Status models.AlertStatus `json:"status" validate:"required,alert_status"`
}
