package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// CanTransitionTo reports whether the linear enrolled -> in_progress ->
// completed progression permits moving from s to next. Repeating the
// current status is allowed so that retried updates stay idempotent.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case EnrollmentEnrolled:
		return next == EnrollmentInProgress
	case EnrollmentInProgress:
		return next == EnrollmentCompleted
	default:
		return false
	}
}

type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ExamID    uint `json:"exam_id" gorm:"not null;index;uniqueIndex:idx_exam_student"`
	StudentID uint `json:"student_id" gorm:"not null;index;uniqueIndex:idx_exam_student"`

	Status EnrollmentStatus `json:"status" gorm:"not null;default:enrolled;index" validate:"omitempty,enrollment_status"`

	// Timing
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	CompletionPercentage int `json:"completion_percentage" gorm:"not null;default:0" validate:"min=0,max=100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam    Exam `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Student User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
