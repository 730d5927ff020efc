package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/proctoring-service/internal/events"
	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

func TestAlertService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("alert starts in new with the detector payload kept", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		details := datatypes.JSON(`{"confidence":0.97,"frame":120}`)
		alert, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{
			ExamID:    exam.ID,
			StudentID: student.ID,
			Type:      "multiple-faces",
			Details:   details,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if alert.Status != models.AlertNew {
			t.Errorf("expected status new, got %s", alert.Status)
		}
		if string(alert.Details) != string(details) {
			t.Errorf("detector payload altered: %s", alert.Details)
		}
	})

	t.Run("dangling references are refused", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		_, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{
			ExamID:    9999,
			StudentID: student.ID,
			Type:      "face-not-visible",
		})
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("expected ErrExamNotFound, got %v", err)
		}

		_, err = env.manager.Alert().Create(ctx, &CreateAlertRequest{
			ExamID:    exam.ID,
			StudentID: 9999,
			Type:      "face-not-visible",
		})
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("creation publishes an event", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)
		env.publisher.ClearEvents()

		if _, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{
			ExamID:    exam.ID,
			StudentID: student.ID,
			Type:      "tab-switch",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventAlertCreated {
			t.Errorf("expected one %s event, got %+v", events.EventAlertCreated, published)
		}
	})
}

func TestAlertService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *models.User, *models.Alert) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		alert, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{
			ExamID:    exam.ID,
			StudentID: student.ID,
			Type:      "multiple-faces",
		})
		if err != nil {
			t.Fatalf("failed to create alert: %v", err)
		}
		return env, proctor, alert
	}

	t.Run("review states rewrite each other", func(t *testing.T) {
		env, proctor, alert := setup(t)

		flagged, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertFlagged}, proctor.ID)
		if err != nil {
			t.Fatalf("failed to flag: %v", err)
		}
		if flagged.Status != models.AlertFlagged {
			t.Errorf("expected flagged, got %s", flagged.Status)
		}

		reviewed, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertReviewed}, proctor.ID)
		if err != nil {
			t.Fatalf("failed to overwrite flagged with reviewed: %v", err)
		}
		if reviewed.Status != models.AlertReviewed {
			t.Errorf("expected reviewed, got %s", reviewed.Status)
		}
	})

	t.Run("repeated review is idempotent", func(t *testing.T) {
		env, proctor, alert := setup(t)

		if _, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertDismissed}, proctor.ID); err != nil {
			t.Fatalf("failed to dismiss: %v", err)
		}
		if _, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertDismissed}, proctor.ID); err != nil {
			t.Errorf("repeated dismissal should succeed: %v", err)
		}
	})

	t.Run("nothing returns to new", func(t *testing.T) {
		env, proctor, alert := setup(t)

		if _, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertReviewed}, proctor.ID); err != nil {
			t.Fatalf("failed to review: %v", err)
		}
		if _, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertNew}, proctor.ID); err == nil {
			t.Error("expected reviewed -> new to be rejected")
		}
	})

	t.Run("another proctor is refused", func(t *testing.T) {
		env, _, alert := setup(t)
		other := env.registerUser(t, "other@example.com", models.RoleProctor)

		_, err := env.manager.Alert().UpdateStatus(ctx, alert.ID, &UpdateAlertStatusRequest{Status: models.AlertReviewed}, other.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestAlertService_ListByExam(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by status and joins students", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		first, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{ExamID: exam.ID, StudentID: student.ID, Type: "multiple-faces"})
		if err != nil {
			t.Fatalf("failed to create alert: %v", err)
		}
		if _, err := env.manager.Alert().Create(ctx, &CreateAlertRequest{ExamID: exam.ID, StudentID: student.ID, Type: "tab-switch"}); err != nil {
			t.Fatalf("failed to create alert: %v", err)
		}
		if _, err := env.manager.Alert().UpdateStatus(ctx, first.ID, &UpdateAlertStatusRequest{Status: models.AlertReviewed}, proctor.ID); err != nil {
			t.Fatalf("failed to review: %v", err)
		}

		newStatus := models.AlertNew
		alerts, err := env.manager.Alert().ListByExam(ctx, exam.ID, proctor.ID, AlertListFilters{Status: &newStatus})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(alerts) != 1 || alerts[0].Type != "tab-switch" {
			t.Errorf("expected only the unreviewed alert, got %+v", alerts)
		}
		if alerts[0].Student.ID != student.ID {
			t.Error("expected the student profile joined")
		}
	})

	t.Run("another proctor is refused", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", models.RoleProctor)
		other := env.registerUser(t, "other@example.com", models.RoleProctor)
		exam := env.createExam(t, owner.ID, true)

		if _, err := env.manager.Alert().ListByExam(ctx, exam.ID, other.ID, AlertListFilters{}); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})
}
