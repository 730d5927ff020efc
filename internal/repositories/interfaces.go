package repositories

import (
	"context"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	ProctorID *uint   `json:"proctor_id"`
	IsActive  *bool   `json:"is_active"`
	Course    *string `json:"course"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "date", "name"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type EnrollmentFilters struct {
	Status *models.EnrollmentStatus `json:"status"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type AlertFilters struct {
	Status *models.AlertStatus `json:"status"`
	Type   *string             `json:"type"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// ===== PER-ENTITY REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	GetByProctor(ctx context.Context, proctorID uint, filters ExamFilters) ([]*models.Exam, error)
	ListActive(ctx context.Context, filters ExamFilters) ([]*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	// GetByStudent returns enrollments with the referenced Exam joined.
	GetByStudent(ctx context.Context, studentID uint, filters EnrollmentFilters) ([]*models.Enrollment, error)
	// GetByExam returns enrollments with the referenced Student joined.
	GetByExam(ctx context.Context, examID uint, filters EnrollmentFilters) ([]*models.Enrollment, error)
	GetByExamAndStudent(ctx context.Context, examID, studentID uint) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	ExistsByExamAndStudent(ctx context.Context, examID, studentID uint) (bool, error)
	CountByExamAndStatus(ctx context.Context, examID uint, status models.EnrollmentStatus) (int64, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uint) (*models.Alert, error)
	// GetByExam returns alerts with the referenced Student joined.
	GetByExam(ctx context.Context, examID uint, filters AlertFilters) ([]*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
}
