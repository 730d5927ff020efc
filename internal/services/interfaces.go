package services

import (
	"context"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateProfileRequest = validator.UpdateProfileRequest
type CreateExamRequest = validator.CreateExamRequest
type UpdateExamRequest = validator.UpdateExamRequest
type CreateEnrollmentRequest = validator.CreateEnrollmentRequest
type UpdateEnrollmentRequest = validator.UpdateEnrollmentRequest
type CreateAlertRequest = validator.CreateAlertRequest
type UpdateAlertStatusRequest = validator.UpdateAlertStatusRequest

// AuthResult carries the issued token together with the account
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Principal is the caller identity the auth gate attaches to each request
type Principal struct {
	ID    uint
	Role  models.UserRole
	Email string
}

// ExamListFilters narrows exam listings
type ExamListFilters struct {
	Course    *string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ===== SERVICE INTERFACES =====

// AuthService covers registration, login and profile management
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error)
	SetProfilePicture(ctx context.Context, userID uint, path string) (*models.User, error)
}

// ExamService covers the exam lifecycle
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, proctorID uint) (*models.Exam, error)
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	ListByProctor(ctx context.Context, proctorID uint, filters ExamListFilters) ([]*models.Exam, error)
	// ListActive is role-scoped: proctors see their own active exams,
	// students see every active exam.
	ListActive(ctx context.Context, caller Principal, filters ExamListFilters) ([]*models.Exam, error)
	Update(ctx context.Context, id uint, req *UpdateExamRequest, proctorID uint) (*models.Exam, error)
}

// EnrollmentService covers the enrollment workflow
type EnrollmentService interface {
	Enroll(ctx context.Context, req *CreateEnrollmentRequest, studentID uint) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error)
	ListByExam(ctx context.Context, examID uint, proctorID uint) ([]*models.Enrollment, error)
	Update(ctx context.Context, id uint, req *UpdateEnrollmentRequest, caller Principal) (*models.Enrollment, error)
}

// AlertService covers the alert workflow
type AlertService interface {
	Create(ctx context.Context, req *CreateAlertRequest) (*models.Alert, error)
	ListByExam(ctx context.Context, examID uint, proctorID uint, filters AlertListFilters) ([]*models.Alert, error)
	UpdateStatus(ctx context.Context, id uint, req *UpdateAlertStatusRequest, proctorID uint) (*models.Alert, error)
}

// AlertListFilters narrows alert listings
type AlertListFilters struct {
	Status *models.AlertStatus
	Type   *string
	Limit  int
	Offset int
}

// ReportService exports exam activity for offline review
type ReportService interface {
	// ExportExamReport builds an xlsx workbook with the exam's enrollments
	// and alerts. Owner-only.
	ExportExamReport(ctx context.Context, examID uint, proctorID uint) ([]byte, string, error)
}

// ServiceManager provides access to all services
type ServiceManager interface {
	Auth() AuthService
	Exam() ExamService
	Enrollment() EnrollmentService
	Alert() AlertService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
