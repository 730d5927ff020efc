package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/proctoring-service/internal/events"
	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
	"github.com/SAP-F-2025/proctoring-service/internal/validator"
)

type enrollmentService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// Enroll creates the caller's enrollment into an exam. The student id is
// always the caller's; the repository's (exam_id, student_id) uniqueness
// closes the race two concurrent enrollments would otherwise win together.
func (s *enrollmentService) Enroll(ctx context.Context, req *CreateEnrollmentRequest, studentID uint) (*models.Enrollment, error) {
	s.logger.Info("Enrolling student", "exam_id", req.ExamID, "student_id", studentID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	exam, err := s.repo.Exam().GetByID(ctx, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if !exam.IsActive {
		return nil, ErrExamInactive
	}

	enrollment := &models.Enrollment{
		ExamID:    req.ExamID,
		StudentID: studentID,
		Status:    models.EnrollmentEnrolled,
	}

	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.EventStudentEnrolled, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"exam_id":       enrollment.ExamID,
		"student_id":    enrollment.StudentID,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish enrollment event", "error", err)
	}

	s.logger.Info("Student enrolled", "enrollment_id", enrollment.ID)

	return enrollment, nil
}

// ListByStudent returns the caller's enrollments with the exam joined in
func (s *enrollmentService) ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Enrollment().GetByStudent(ctx, studentID, repositories.EnrollmentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, nil
}

// ListByExam returns an exam's enrollments with each student's public
// profile joined. Owner-only.
func (s *enrollmentService) ListByExam(ctx context.Context, examID uint, proctorID uint) ([]*models.Enrollment, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.ProctorID != proctorID {
		return nil, NewPermissionError(proctorID, examID, "exam", "list enrollments", "not the owning proctor")
	}

	enrollments, err := s.repo.Enrollment().GetByExam(ctx, examID, repositories.EnrollmentFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, nil
}

// Update applies a progress update. A student may only touch their own
// enrollment; any proctor may update any enrollment. Transitions follow
// the linear enrolled -> in_progress -> completed machine.
func (s *enrollmentService) Update(ctx context.Context, id uint, req *UpdateEnrollmentRequest, caller Principal) (*models.Enrollment, error) {
	s.logger.Info("Updating enrollment", "enrollment_id", id, "user_id", caller.ID)

	enrollment, err := s.repo.Enrollment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	if caller.Role != models.RoleProctor && enrollment.StudentID != caller.ID {
		return nil, NewPermissionError(caller.ID, id, "enrollment", "update", "not the enrolled student")
	}

	if errs := s.validator.ValidateEnrollmentUpdate(req, enrollment); len(errs) > 0 {
		return nil, errs
	}

	if req.Status != nil {
		enrollment.Status = *req.Status
	}
	if req.StartTime != nil {
		enrollment.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		enrollment.EndTime = req.EndTime
	}
	if req.CompletionPercentage != nil {
		enrollment.CompletionPercentage = *req.CompletionPercentage
	}

	if err := s.repo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.EventEnrollmentUpdated, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"exam_id":       enrollment.ExamID,
		"status":        enrollment.Status,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish enrollment event", "error", err)
	}

	return enrollment, nil
}
