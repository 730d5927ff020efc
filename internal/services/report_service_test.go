package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

func TestReportService_ExportExamReport(t *testing.T) {
	ctx := context.Background()

	t.Run("workbook holds enrollments and alerts", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		if _, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID); err != nil {
			t.Fatalf("failed to enroll: %v", err)
		}
		if _, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{
			ExamID:    exam.ID,
			StudentID: student.ID,
			Type:      "multiple-faces",
		}); err != nil {
			t.Fatalf("failed to create alert: %v", err)
		}

		data, filename, err := env.manager.Report().ExportExamReport(ctx, exam.ID, proctor.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(filename, ".xlsx") {
			t.Errorf("unexpected filename %q", filename)
		}

		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("exported bytes are not a workbook: %v", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) != 2 || sheets[0] != "Enrollments" || sheets[1] != "Alerts" {
			t.Fatalf("unexpected sheets %v", sheets)
		}

		rows, err := f.GetRows("Enrollments")
		if err != nil {
			t.Fatalf("failed to read enrollment rows: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header plus one enrollment, got %d rows", len(rows))
		}
		if rows[1][1] != student.Name || rows[1][3] != string(models.EnrollmentEnrolled) {
			t.Errorf("unexpected enrollment row %v", rows[1])
		}

		rows, err = f.GetRows("Alerts")
		if err != nil {
			t.Fatalf("failed to read alert rows: %v", err)
		}
		if len(rows) != 2 || rows[1][2] != "multiple-faces" {
			t.Errorf("unexpected alert rows %v", rows)
		}
	})

	t.Run("another proctor is refused", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", models.RoleProctor)
		other := env.registerUser(t, "other@example.com", models.RoleProctor)
		exam := env.createExam(t, owner.ID, true)

		if _, _, err := env.manager.Report().ExportExamReport(ctx, exam.ID, other.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown exam", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)

		if _, _, err := env.manager.Report().ExportExamReport(ctx, 9999, proctor.ID); !errors.Is(err, ErrExamNotFound) {
			t.Errorf("expected ErrExamNotFound, got %v", err)
		}
	})
}
