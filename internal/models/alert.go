package models

import (
	"time"

	"gorm.io/datatypes"
)

type AlertStatus string

const (
	AlertNew       AlertStatus = "new"
	AlertReviewed  AlertStatus = "reviewed"
	AlertFlagged   AlertStatus = "flagged"
	AlertDismissed AlertStatus = "dismissed"
)

// CanTransitionTo reports whether an alert may move from s to next. A new
// alert may be moved to any review state; review states may be rewritten
// into each other (a proctor can re-flag a dismissed alert), but nothing
// ever returns to "new". Identical repeats are permitted so that a retried
// review is idempotent.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	if next == AlertNew {
		return s == AlertNew
	}
	switch next {
	case AlertReviewed, AlertFlagged, AlertDismissed:
		return true
	default:
		return false
	}
}

// Alert is a flagged anomaly event produced by the external detector for a
// student's attempt at an exam. Alerts are never deleted; proctors only move
// them through review states.
type Alert struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ExamID    uint `json:"exam_id" gorm:"not null;index"`
	StudentID uint `json:"student_id" gorm:"not null;index"`

	// Free-form detector category, e.g. "face-not-visible", "multiple-faces".
	Type string `json:"type" gorm:"not null;size:100" validate:"required,min=1,max=100"`

	// Opaque structured payload from the detector.
	Details datatypes.JSON `json:"details" gorm:"type:jsonb"`

	Status AlertStatus `json:"status" gorm:"not null;default:new;index" validate:"omitempty,alert_status"`

	// Server-assigned, immutable.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam    Exam `json:"-" gorm:"foreignKey:ExamID"`
	Student User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Alert) TableName() string {
	return "alerts"
}
