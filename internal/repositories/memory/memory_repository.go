// Package memory provides an in-memory Repository backend used for tests and
// demo deployments. Keys are assigned by a per-type incrementing counter
// under the store's write lock, so concurrent creates always receive unique
// ids. Secondary lookups (email, exam id, student id) scan the full table,
// which is acceptable at the data volumes this backend is meant for.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type store struct {
	mu sync.RWMutex

	users       map[uint]*models.User
	exams       map[uint]*models.Exam
	enrollments map[uint]*models.Enrollment
	alerts      map[uint]*models.Alert

	userSeq       uint
	examSeq       uint
	enrollmentSeq uint
	alertSeq      uint
}

// MemoryRepository implements repositories.Repository over process-local maps.
type MemoryRepository struct {
	store *store

	user       repositories.UserRepository
	exam       repositories.ExamRepository
	enrollment repositories.EnrollmentRepository
	alert      repositories.AlertRepository
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() repositories.Repository {
	s := &store{
		users:       make(map[uint]*models.User),
		exams:       make(map[uint]*models.Exam),
		enrollments: make(map[uint]*models.Enrollment),
		alerts:      make(map[uint]*models.Alert),
	}

	return &MemoryRepository{
		store:      s,
		user:       &userMemory{store: s},
		exam:       &examMemory{store: s},
		enrollment: &enrollmentMemory{store: s},
		alert:      &alertMemory{store: s},
	}
}

func (r *MemoryRepository) User() repositories.UserRepository             { return r.user }
func (r *MemoryRepository) Exam() repositories.ExamRepository             { return r.exam }
func (r *MemoryRepository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }
func (r *MemoryRepository) Alert() repositories.AlertRepository           { return r.alert }

// WithTransaction executes fn against the same store. Individual operations
// are already atomic under the store mutex; there is no rollback.
func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

func (r *MemoryRepository) Close() error { return nil }

// applyWindow applies limit/offset to an already-sorted slice.
func applyWindow[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// sortByID keeps list responses deterministic across calls.
func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
