package memory

import (
	"context"
	"time"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type enrollmentMemory struct {
	store *store
}

func (r *enrollmentMemory) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Uniqueness on (exam_id, student_id) is enforced here, under the write
	// lock, so concurrent enrollment attempts cannot both succeed.
	for _, e := range r.store.enrollments {
		if e.ExamID == enrollment.ExamID && e.StudentID == enrollment.StudentID {
			return repositories.ErrDuplicate
		}
	}

	r.store.enrollmentSeq++
	enrollment.ID = r.store.enrollmentSeq
	now := time.Now()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	cp := *enrollment
	r.store.enrollments[enrollment.ID] = &cp
	return nil
}

func (r *enrollmentMemory) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *enrollmentMemory) GetByStudent(ctx context.Context, studentID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var enrollments []*models.Enrollment
	for _, e := range r.store.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		cp := *e
		if exam, ok := r.store.exams[e.ExamID]; ok {
			cp.Exam = *exam
		}
		enrollments = append(enrollments, &cp)
	}
	sortByID(enrollments, func(e *models.Enrollment) uint { return e.ID })
	return applyWindow(enrollments, filters.Limit, filters.Offset), nil
}

func (r *enrollmentMemory) GetByExam(ctx context.Context, examID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var enrollments []*models.Enrollment
	for _, e := range r.store.enrollments {
		if e.ExamID != examID {
			continue
		}
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		cp := *e
		if student, ok := r.store.users[e.StudentID]; ok {
			cp.Student = *student
		}
		enrollments = append(enrollments, &cp)
	}
	sortByID(enrollments, func(e *models.Enrollment) uint { return e.ID })
	return applyWindow(enrollments, filters.Limit, filters.Offset), nil
}

func (r *enrollmentMemory) GetByExamAndStudent(ctx context.Context, examID, studentID uint) (*models.Enrollment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.enrollments {
		if e.ExamID == examID && e.StudentID == studentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *enrollmentMemory) Update(ctx context.Context, enrollment *models.Enrollment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.enrollments[enrollment.ID]; !ok {
		return repositories.ErrNotFound
	}

	enrollment.UpdatedAt = time.Now()
	cp := *enrollment
	cp.Exam = models.Exam{}
	cp.Student = models.User{}
	r.store.enrollments[enrollment.ID] = &cp
	return nil
}

func (r *enrollmentMemory) ExistsByExamAndStudent(ctx context.Context, examID, studentID uint) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.enrollments {
		if e.ExamID == examID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *enrollmentMemory) CountByExamAndStatus(ctx context.Context, examID uint, status models.EnrollmentStatus) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, e := range r.store.enrollments {
		if e.ExamID == examID && e.Status == status {
			count++
		}
	}
	return count, nil
}
