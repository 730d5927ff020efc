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

type examService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewExamService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) ExamService {
	return &examService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// Create creates an exam owned by the calling proctor. The owner is always
// the caller; a client-supplied proctor id is never trusted.
func (s *examService) Create(ctx context.Context, req *CreateExamRequest, proctorID uint) (*models.Exam, error) {
	s.logger.Info("Creating exam", "proctor_id", proctorID, "name", req.Name)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	exam := &models.Exam{
		Name:           req.Name,
		Course:         req.Course,
		Description:    req.Description,
		Date:           req.Date,
		Duration:       req.Duration,
		TotalQuestions: req.TotalQuestions,
		ProctorID:      proctorID,
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}

	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.EventExamCreated, map[string]interface{}{
		"exam_id":    exam.ID,
		"proctor_id": exam.ProctorID,
		"is_active":  exam.IsActive,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish exam event", "error", err)
	}

	s.logger.Info("Exam created", "exam_id", exam.ID)

	return exam, nil
}

func (s *examService) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	return exam, nil
}

func (s *examService) ListByProctor(ctx context.Context, proctorID uint, filters ExamListFilters) ([]*models.Exam, error) {
	exams, err := s.repo.Exam().GetByProctor(ctx, proctorID, repoExamFilters(filters, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	return exams, nil
}

// ListActive is intentionally asymmetric: students discover exams by global
// activity, proctors only ever see their own.
func (s *examService) ListActive(ctx context.Context, caller Principal, filters ExamListFilters) ([]*models.Exam, error) {
	active := true

	if caller.Role == models.RoleProctor {
		exams, err := s.repo.Exam().GetByProctor(ctx, caller.ID, repoExamFilters(filters, &active))
		if err != nil {
			return nil, fmt.Errorf("failed to list active exams: %w", err)
		}
		return exams, nil
	}

	exams, err := s.repo.Exam().ListActive(ctx, repoExamFilters(filters, &active))
	if err != nil {
		return nil, fmt.Errorf("failed to list active exams: %w", err)
	}

	return exams, nil
}

func (s *examService) Update(ctx context.Context, id uint, req *UpdateExamRequest, proctorID uint) (*models.Exam, error) {
	s.logger.Info("Updating exam", "exam_id", id, "proctor_id", proctorID)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if exam.ProctorID != proctorID {
		return nil, NewPermissionError(proctorID, id, "exam", "update", "not the owning proctor")
	}

	// Deactivating an exam while students are mid-attempt would orphan
	// their sessions, so it is refused.
	if req.IsActive != nil && !*req.IsActive && exam.IsActive {
		inProgress, err := s.repo.Enrollment().CountByExamAndStatus(ctx, id, models.EnrollmentInProgress)
		if err != nil {
			return nil, fmt.Errorf("failed to count in-progress enrollments: %w", err)
		}
		if inProgress > 0 {
			return nil, ErrExamInUse
		}
	}

	applyExamUpdate(exam, req)

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.EventExamUpdated, map[string]interface{}{
		"exam_id":   exam.ID,
		"is_active": exam.IsActive,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish exam event", "error", err)
	}

	return exam, nil
}

func applyExamUpdate(exam *models.Exam, req *UpdateExamRequest) {
	if req.Name != nil {
		exam.Name = *req.Name
	}
	if req.Course != nil {
		exam.Course = *req.Course
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.Date != nil {
		exam.Date = *req.Date
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	if req.TotalQuestions != nil {
		exam.TotalQuestions = *req.TotalQuestions
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
}

func repoExamFilters(f ExamListFilters, isActive *bool) repositories.ExamFilters {
	return repositories.ExamFilters{
		IsActive:  isActive,
		Course:    f.Course,
		Limit:     f.Limit,
		Offset:    f.Offset,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
	}
}
