package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/proctoring-service/internal/cache"
	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type ExamPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewExamPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ExamRepository {
	return &ExamPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create creates a new exam and invalidates the owning proctor's listings
func (e *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	if err := e.db.WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Exam, fmt.Sprintf("proctor:%d:*", exam.ProctorID))
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Exam, "active:*")

	return nil
}

// GetByID retrieves an exam by ID with caching
func (e *ExamPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var exam models.Exam

	err := e.cacheManager.Exam.CacheOrExecute(ctx, cacheKey, &exam, cache.ExamTTL, func() (interface{}, error) {
		var dbExam models.Exam
		if err := e.db.WithContext(ctx).First(&dbExam, id).Error; err != nil {
			return nil, err
		}
		return &dbExam, nil
	})
	if err != nil {
		return nil, err
	}

	return &exam, nil
}

// GetByProctor retrieves exams owned by a specific proctor
func (e *ExamPostgreSQL) GetByProctor(ctx context.Context, proctorID uint, filters repositories.ExamFilters) ([]*models.Exam, error) {
	query := e.db.WithContext(ctx).Model(&models.Exam{}).Where("proctor_id = ?", proctorID)
	query = e.applyFilters(query, filters)
	query = e.applyPaginationAndSort(query, filters)

	var exams []*models.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list exams by proctor: %w", err)
	}

	return exams, nil
}

// ListActive retrieves all active exams regardless of owner
func (e *ExamPostgreSQL) ListActive(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, error) {
	query := e.db.WithContext(ctx).Model(&models.Exam{}).Where("is_active = ?", true)
	query = e.applyFilters(query, filters)
	query = e.applyPaginationAndSort(query, filters)

	var exams []*models.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list active exams: %w", err)
	}

	return exams, nil
}

// Update updates an exam and invalidates cache
func (e *ExamPostgreSQL) Update(ctx context.Context, exam *models.Exam) error {
	result := e.db.WithContext(ctx).Model(&models.Exam{}).Where("id = ?", exam.ID).Updates(map[string]interface{}{
		"name":            exam.Name,
		"course":          exam.Course,
		"description":     exam.Description,
		"date":            exam.Date,
		"duration":        exam.Duration,
		"total_questions": exam.TotalQuestions,
		"is_active":       exam.IsActive,
		"updated_at":      exam.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update exam: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	e.cacheManager.InvalidateExam(ctx, exam.ID, exam.ProctorID)

	return nil
}

func (e *ExamPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Course != nil {
		query = query.Where("course = ?", *filters.Course)
	}
	return query
}

func (e *ExamPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ExamFilters) *gorm.DB {
	sortBy := "id"
	switch filters.SortBy {
	case "created_at", "date", "name":
		sortBy = filters.SortBy
	}
	order := "ASC"
	if filters.SortOrder == "desc" {
		order = "DESC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
