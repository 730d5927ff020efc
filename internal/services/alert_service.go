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

type alertService struct {
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewAlertService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher) AlertService {
	return &alertService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
	}
}

// Create records an alert reported by the detector. The exam and student
// references are resolved before the write so a misbehaving detector cannot
// fill the store with dangling alerts.
func (s *alertService) Create(ctx context.Context, req *CreateAlertRequest) (*models.Alert, error) {
	s.logger.Info("Creating alert", "exam_id", req.ExamID, "student_id", req.StudentID, "type", req.Type)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Exam().GetByID(ctx, req.ExamID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if _, err := s.repo.User().GetByID(ctx, req.StudentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	alert := &models.Alert{
		ExamID:    req.ExamID,
		StudentID: req.StudentID,
		Type:      req.Type,
		Details:   req.Details,
		Status:    models.AlertNew,
	}

	if err := s.repo.Alert().Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.EventAlertCreated, map[string]interface{}{
		"alert_id":   alert.ID,
		"exam_id":    alert.ExamID,
		"student_id": alert.StudentID,
		"type":       alert.Type,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish alert event", "error", err)
	}

	s.logger.Info("Alert created", "alert_id", alert.ID)

	return alert, nil
}

// ListByExam returns an exam's alerts with each student's public profile
// joined. Owner-only.
func (s *alertService) ListByExam(ctx context.Context, examID uint, proctorID uint, filters AlertListFilters) ([]*models.Alert, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.ProctorID != proctorID {
		return nil, NewPermissionError(proctorID, examID, "exam", "list alerts", "not the owning proctor")
	}

	alerts, err := s.repo.Alert().GetByExam(ctx, examID, repositories.AlertFilters{
		Status: filters.Status,
		Type:   filters.Type,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

// UpdateStatus applies a review decision. Ownership is checked through the
// alert's exam, and the transition function rejects moves back to "new".
func (s *alertService) UpdateStatus(ctx context.Context, id uint, req *UpdateAlertStatusRequest, proctorID uint) (*models.Alert, error) {
	s.logger.Info("Reviewing alert", "alert_id", id, "proctor_id", proctorID)

	alert, err := s.repo.Alert().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	exam, err := s.repo.Exam().GetByID(ctx, alert.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.ProctorID != proctorID {
		return nil, NewPermissionError(proctorID, id, "alert", "review", "not the owning proctor")
	}

	if errs := s.validator.ValidateAlertReview(req, alert); len(errs) > 0 {
		return nil, errs
	}

	alert.Status = req.Status

	if err := s.repo.Alert().Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, events.EventAlertReviewed, map[string]interface{}{
		"alert_id": alert.ID,
		"exam_id":  alert.ExamID,
		"status":   alert.Status,
	}); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish alert event", "error", err)
	}

	return alert, nil
}
