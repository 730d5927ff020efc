package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportExamReport builds an xlsx workbook with one sheet of enrollments and
// one of alerts for the exam. Owner-only.
func (s *reportService) ExportExamReport(ctx context.Context, examID uint, proctorID uint) ([]byte, string, error) {
	s.logger.Info("Exporting exam report", "exam_id", examID, "proctor_id", proctorID)

	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrExamNotFound
		}
		return nil, "", fmt.Errorf("failed to get exam: %w", err)
	}
	if exam.ProctorID != proctorID {
		return nil, "", NewPermissionError(proctorID, examID, "exam", "export", "not the owning proctor")
	}

	enrollments, err := s.repo.Enrollment().GetByExam(ctx, examID, repositories.EnrollmentFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list enrollments: %w", err)
	}
	alerts, err := s.repo.Alert().GetByExam(ctx, examID, repositories.AlertFilters{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to list alerts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeEnrollmentSheet(f, enrollments); err != nil {
		return nil, "", err
	}
	if err := s.writeAlertSheet(f, alerts); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("exam-%d-report-%s.xlsx", exam.ID, time.Now().Format("2006-01-02"))

	return buf.Bytes(), filename, nil
}

func (s *reportService) writeEnrollmentSheet(f *excelize.File, enrollments []*models.Enrollment) error {
	const sheet = "Enrollments"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"ID", "Student", "Email", "Status", "Start Time", "End Time", "Completion %"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, e := range enrollments {
		values := []interface{}{
			e.ID,
			e.Student.Name,
			e.Student.Email,
			string(e.Status),
			formatTime(e.StartTime),
			formatTime(e.EndTime),
			e.CompletionPercentage,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write enrollment row: %w", err)
			}
		}
	}

	return nil
}

func (s *reportService) writeAlertSheet(f *excelize.File, alerts []*models.Alert) error {
	const sheet = "Alerts"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headers := []string{"ID", "Student", "Type", "Status", "Created At", "Details"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, a := range alerts {
		values := []interface{}{
			a.ID,
			a.Student.Name,
			a.Type,
			string(a.Status),
			a.CreatedAt.Format(time.RFC3339),
			string(a.Details),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write alert row: %w", err)
			}
		}
	}

	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
