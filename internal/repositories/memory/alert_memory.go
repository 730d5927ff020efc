package memory

import (
	"context"
	"time"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type alertMemory struct {
	store *store
}

func (r *alertMemory) Create(ctx context.Context, alert *models.Alert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.alertSeq++
	alert.ID = r.store.alertSeq
	now := time.Now()
	alert.CreatedAt = now
	alert.UpdatedAt = now

	cp := *alert
	r.store.alerts[alert.ID] = &cp
	return nil
}

func (r *alertMemory) GetByID(ctx context.Context, id uint) (*models.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.alerts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *alertMemory) GetByExam(ctx context.Context, examID uint, filters repositories.AlertFilters) ([]*models.Alert, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var alerts []*models.Alert
	for _, a := range r.store.alerts {
		if a.ExamID != examID {
			continue
		}
		if filters.Status != nil && a.Status != *filters.Status {
			continue
		}
		if filters.Type != nil && a.Type != *filters.Type {
			continue
		}
		cp := *a
		if student, ok := r.store.users[a.StudentID]; ok {
			cp.Student = *student
		}
		alerts = append(alerts, &cp)
	}
	sortByID(alerts, func(a *models.Alert) uint { return a.ID })
	return applyWindow(alerts, filters.Limit, filters.Offset), nil
}

func (r *alertMemory) Update(ctx context.Context, alert *models.Alert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.alerts[alert.ID]; !ok {
		return repositories.ErrNotFound
	}

	alert.UpdatedAt = time.Now()
	cp := *alert
	cp.Exam = models.Exam{}
	cp.Student = models.User{}
	r.store.alerts[alert.ID] = &cp
	return nil
}
