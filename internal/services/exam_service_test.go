package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

func TestExamService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("owner is always the caller", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)

		exam := env.createExam(t, proctor.ID, true)
		if exam.ProctorID != proctor.ID {
			t.Errorf("expected proctor %d, got %d", proctor.ID, exam.ProctorID)
		}
	})

	t.Run("duration outside bounds is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)

		_, err := env.manager.Exam().Create(ctx, &CreateExamRequest{
			Name:           "Too Long",
			Course:         "CS301",
			Date:           time.Now().Add(time.Hour),
			Duration:       1000,
			TotalQuestions: 10,
		}, proctor.ID)
		if err == nil {
			t.Error("expected validation failure for duration")
		}
	})

	t.Run("inactive by default", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)

		exam, err := env.manager.Exam().Create(ctx, &CreateExamRequest{
			Name:           "Draft Exam",
			Course:         "CS301",
			Date:           time.Now().Add(time.Hour),
			Duration:       60,
			TotalQuestions: 10,
		}, proctor.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exam.IsActive {
			t.Error("exam should default to inactive")
		}
	})
}

func TestExamService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can update", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		exam := env.createExam(t, proctor.ID, false)

		name := "Renamed Exam"
		active := true
		updated, err := env.manager.Exam().Update(ctx, exam.ID, &UpdateExamRequest{
			Name:     &name,
			IsActive: &active,
		}, proctor.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != name || !updated.IsActive {
			t.Errorf("update not applied: %+v", updated)
		}
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", models.RoleProctor)
		other := env.registerUser(t, "other@example.com", models.RoleProctor)
		exam := env.createExam(t, owner.ID, true)

		name := "Hijacked"
		_, err := env.manager.Exam().Update(ctx, exam.ID, &UpdateExamRequest{Name: &name}, other.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("deactivation is refused while attempts are in progress", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		enrollment, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID)
		if err != nil {
			t.Fatalf("failed to enroll: %v", err)
		}
		inProgress := models.EnrollmentInProgress
		now := time.Now()
		if _, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status:    &inProgress,
			StartTime: &now,
		}, Principal{ID: student.ID, Role: models.RoleStudent}); err != nil {
			t.Fatalf("failed to start attempt: %v", err)
		}

		inactive := false
		_, err = env.manager.Exam().Update(ctx, exam.ID, &UpdateExamRequest{IsActive: &inactive}, proctor.ID)
		if !errors.Is(err, ErrExamInUse) {
			t.Errorf("expected ErrExamInUse, got %v", err)
		}
	})

	t.Run("unknown exam", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)

		name := "Ghost"
		_, err := env.manager.Exam().Update(ctx, 9999, &UpdateExamRequest{Name: &name}, proctor.ID)
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("expected ErrExamNotFound, got %v", err)
		}
	})
}

func TestExamService_ListActive(t *testing.T) {
	ctx := context.Background()

	t.Run("students see all active exams, proctors only their own", func(t *testing.T) {
		env := newTestEnv(t)
		proctorA := env.registerUser(t, "a@example.com", models.RoleProctor)
		proctorB := env.registerUser(t, "b@example.com", models.RoleProctor)
		student := env.registerUser(t, "s@example.com", models.RoleStudent)

		env.createExam(t, proctorA.ID, true)
		env.createExam(t, proctorA.ID, false)
		env.createExam(t, proctorB.ID, true)

		studentView, err := env.manager.Exam().ListActive(ctx, Principal{ID: student.ID, Role: models.RoleStudent}, ExamListFilters{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(studentView) != 2 {
			t.Errorf("expected 2 active exams for the student, got %d", len(studentView))
		}

		proctorView, err := env.manager.Exam().ListActive(ctx, Principal{ID: proctorA.ID, Role: models.RoleProctor}, ExamListFilters{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(proctorView) != 1 {
			t.Errorf("expected 1 active exam for proctor A, got %d", len(proctorView))
		}
		if len(proctorView) == 1 && proctorView[0].ProctorID != proctorA.ID {
			t.Error("proctor must only see their own exams")
		}
	})
}
