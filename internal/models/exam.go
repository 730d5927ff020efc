package models

import (
	"time"
)

type Exam struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Course         string    `json:"course" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description    *string   `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Date           time.Time `json:"date" gorm:"not null" validate:"required"`
	Duration       int       `json:"duration" gorm:"not null" validate:"required,exam_duration"` // minutes
	TotalQuestions int       `json:"total_questions" gorm:"not null" validate:"required,min=1"`
	IsActive       bool      `json:"is_active" gorm:"default:false;index"`

	// Owning proctor, fixed at creation. Mutations are gated on an id
	// comparison against the caller, never on a database constraint.
	ProctorID uint `json:"proctor_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Proctor     User         `json:"-" gorm:"foreignKey:ProctorID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:ExamID"`
	Alerts      []Alert      `json:"-" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}
