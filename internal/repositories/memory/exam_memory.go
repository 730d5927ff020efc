package memory

import (
	"context"
	"time"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type examMemory struct {
	store *store
}

func (r *examMemory) Create(ctx context.Context, exam *models.Exam) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.examSeq++
	exam.ID = r.store.examSeq
	now := time.Now()
	exam.CreatedAt = now
	exam.UpdatedAt = now

	cp := *exam
	r.store.exams[exam.ID] = &cp
	return nil
}

func (r *examMemory) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.exams[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *examMemory) GetByProctor(ctx context.Context, proctorID uint, filters repositories.ExamFilters) ([]*models.Exam, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var exams []*models.Exam
	for _, e := range r.store.exams {
		if e.ProctorID != proctorID {
			continue
		}
		if !matchesExamFilters(e, filters) {
			continue
		}
		cp := *e
		exams = append(exams, &cp)
	}
	sortByID(exams, func(e *models.Exam) uint { return e.ID })
	return applyWindow(exams, filters.Limit, filters.Offset), nil
}

func (r *examMemory) ListActive(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var exams []*models.Exam
	for _, e := range r.store.exams {
		if !e.IsActive {
			continue
		}
		if !matchesExamFilters(e, filters) {
			continue
		}
		cp := *e
		exams = append(exams, &cp)
	}
	sortByID(exams, func(e *models.Exam) uint { return e.ID })
	return applyWindow(exams, filters.Limit, filters.Offset), nil
}

func (r *examMemory) Update(ctx context.Context, exam *models.Exam) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.exams[exam.ID]; !ok {
		return repositories.ErrNotFound
	}

	exam.UpdatedAt = time.Now()
	cp := *exam
	r.store.exams[exam.ID] = &cp
	return nil
}

func matchesExamFilters(e *models.Exam, filters repositories.ExamFilters) bool {
	if filters.ProctorID != nil && e.ProctorID != *filters.ProctorID {
		return false
	}
	if filters.IsActive != nil && e.IsActive != *filters.IsActive {
		return false
	}
	if filters.Course != nil && e.Course != *filters.Course {
		return false
	}
	return true
}
