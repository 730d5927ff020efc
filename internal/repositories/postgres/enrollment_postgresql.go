package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

// Create inserts an enrollment. The unique index on (exam_id, student_id)
// is the last line of defense against two concurrent enrollments; gorm's
// error translation surfaces the violation as ErrDuplicatedKey.
func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// GetByStudent returns a student's enrollments with the exam joined
func (e *EnrollmentPostgreSQL) GetByStudent(ctx context.Context, studentID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	query := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Preload("Exam")
	query = e.applyFilters(query, filters)

	var enrollments []*models.Enrollment
	if err := query.Order("id ASC").Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments by student: %w", err)
	}

	return enrollments, nil
}

// GetByExam returns an exam's enrollments with the student joined
func (e *EnrollmentPostgreSQL) GetByExam(ctx context.Context, examID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	query := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("exam_id = ?", examID).
		Preload("Student")
	query = e.applyFilters(query, filters)

	var enrollments []*models.Enrollment
	if err := query.Order("id ASC").Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments by exam: %w", err)
	}

	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) GetByExamAndStudent(ctx context.Context, examID, studentID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	result := e.db.WithContext(ctx).Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Updates(map[string]interface{}{
		"status":                enrollment.Status,
		"start_time":            enrollment.StartTime,
		"end_time":              enrollment.EndTime,
		"completion_percentage": enrollment.CompletionPercentage,
		"updated_at":            enrollment.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	return nil
}

func (e *EnrollmentPostgreSQL) ExistsByExamAndStudent(ctx context.Context, examID, studentID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment existence: %w", err)
	}

	return count > 0, nil
}

func (e *EnrollmentPostgreSQL) CountByExamAndStatus(ctx context.Context, examID uint, status models.EnrollmentStatus) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("exam_id = ? AND status = ?", examID, status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return count, nil
}

func (e *EnrollmentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.EnrollmentFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
