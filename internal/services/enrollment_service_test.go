package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("student enrolls into an active exam", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		enrollment, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if enrollment.Status != models.EnrollmentEnrolled {
			t.Errorf("expected status enrolled, got %s", enrollment.Status)
		}
		if enrollment.StudentID != student.ID {
			t.Errorf("expected student %d, got %d", student.ID, enrollment.StudentID)
		}
	})

	t.Run("inactive exam is refused", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, false)

		_, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID)
		if !errors.Is(err, ErrExamInactive) {
			t.Errorf("expected ErrExamInactive, got %v", err)
		}
	})

	t.Run("duplicate enrollment is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		if _, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID); err != nil {
			t.Fatalf("first enrollment failed: %v", err)
		}
		_, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID)
		if !errors.Is(err, ErrAlreadyEnrolled) {
			t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
		}
	})

	t.Run("unknown exam", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)

		_, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: 9999}, student.ID)
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("expected ErrExamNotFound, got %v", err)
		}
	})
}

func TestEnrollmentService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *models.User, *models.User, *models.Enrollment) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		enrollment, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID)
		if err != nil {
			t.Fatalf("failed to enroll: %v", err)
		}
		return env, proctor, student, enrollment
	}

	t.Run("full lifecycle enrolled to completed", func(t *testing.T) {
		env, _, student, enrollment := setup(t)
		caller := Principal{ID: student.ID, Role: models.RoleStudent}

		start := time.Now()
		inProgress := models.EnrollmentInProgress
		halfway := 50
		updated, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status:               &inProgress,
			StartTime:            &start,
			CompletionPercentage: &halfway,
		}, caller)
		if err != nil {
			t.Fatalf("failed to start attempt: %v", err)
		}
		if updated.Status != models.EnrollmentInProgress || updated.CompletionPercentage != 50 {
			t.Errorf("unexpected state after start: %+v", updated)
		}

		end := start.Add(time.Hour)
		completed := models.EnrollmentCompleted
		done := 100
		updated, err = env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status:               &completed,
			EndTime:              &end,
			CompletionPercentage: &done,
		}, caller)
		if err != nil {
			t.Fatalf("failed to complete attempt: %v", err)
		}
		if updated.Status != models.EnrollmentCompleted || updated.EndTime == nil {
			t.Errorf("unexpected state after completion: %+v", updated)
		}
	})

	t.Run("skipping in_progress is rejected", func(t *testing.T) {
		env, _, student, enrollment := setup(t)

		completed := models.EnrollmentCompleted
		_, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status: &completed,
		}, Principal{ID: student.ID, Role: models.RoleStudent})
		if err == nil {
			t.Error("expected enrolled -> completed to be rejected")
		}
	})

	t.Run("repeating the current status is idempotent", func(t *testing.T) {
		env, _, student, enrollment := setup(t)

		enrolled := models.EnrollmentEnrolled
		if _, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status: &enrolled,
		}, Principal{ID: student.ID, Role: models.RoleStudent}); err != nil {
			t.Errorf("repeated status update should succeed: %v", err)
		}
	})

	t.Run("completion percentage never decreases", func(t *testing.T) {
		env, _, student, enrollment := setup(t)
		caller := Principal{ID: student.ID, Role: models.RoleStudent}

		inProgress := models.EnrollmentInProgress
		pct := 60
		if _, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status:               &inProgress,
			CompletionPercentage: &pct,
		}, caller); err != nil {
			t.Fatalf("failed to set progress: %v", err)
		}

		lower := 30
		_, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			CompletionPercentage: &lower,
		}, caller)
		if err == nil {
			t.Error("expected decreasing completion percentage to be rejected")
		}
	})

	t.Run("another student is refused, a proctor is not", func(t *testing.T) {
		env, proctor, _, enrollment := setup(t)
		intruder := env.registerUser(t, "intruder@example.com", models.RoleStudent)

		inProgress := models.EnrollmentInProgress
		_, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status: &inProgress,
		}, Principal{ID: intruder.ID, Role: models.RoleStudent})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden for another student, got %v", err)
		}

		if _, err := env.manager.Enrollment().Update(ctx, enrollment.ID, &UpdateEnrollmentRequest{
			Status: &inProgress,
		}, Principal{ID: proctor.ID, Role: models.RoleProctor}); err != nil {
			t.Errorf("proctor update should succeed: %v", err)
		}
	})
}

func TestEnrollmentService_Listing(t *testing.T) {
	ctx := context.Background()

	t.Run("student listing joins the exam", func(t *testing.T) {
		env := newTestEnv(t)
		proctor := env.registerUser(t, "proctor@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, proctor.ID, true)

		if _, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID); err != nil {
			t.Fatalf("failed to enroll: %v", err)
		}

		enrollments, err := env.manager.Enrollment().ListByStudent(ctx, student.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(enrollments) != 1 {
			t.Fatalf("expected 1 enrollment, got %d", len(enrollments))
		}
		if enrollments[0].Exam.ID != exam.ID {
			t.Errorf("expected exam %d to be joined, got %+v", exam.ID, enrollments[0].Exam)
		}
	})

	t.Run("exam listing is owner-only and joins students", func(t *testing.T) {
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", models.RoleProctor)
		other := env.registerUser(t, "other@example.com", models.RoleProctor)
		student := env.registerUser(t, "student@example.com", models.RoleStudent)
		exam := env.createExam(t, owner.ID, true)

		if _, err := env.manager.Enrollment().Enroll(ctx, &CreateEnrollmentRequest{ExamID: exam.ID}, student.ID); err != nil {
			t.Fatalf("failed to enroll: %v", err)
		}

		enrollments, err := env.manager.Enrollment().ListByExam(ctx, exam.ID, owner.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(enrollments) != 1 || enrollments[0].Student.ID != student.ID {
			t.Errorf("expected the student joined, got %+v", enrollments)
		}

		if _, err := env.manager.Enrollment().ListByExam(ctx, exam.ID, other.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden for another proctor, got %v", err)
		}
	})
}
