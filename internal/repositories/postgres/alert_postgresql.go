package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/repositories"
)

type AlertPostgreSQL struct {
	db *gorm.DB
}

func NewAlertPostgreSQL(db *gorm.DB) repositories.AlertRepository {
	return &AlertPostgreSQL{db: db}
}

func (a *AlertPostgreSQL) Create(ctx context.Context, alert *models.Alert) error {
	if err := a.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

func (a *AlertPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := a.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, err
	}

	return &alert, nil
}

// GetByExam returns an exam's alerts with the student joined
func (a *AlertPostgreSQL) GetByExam(ctx context.Context, examID uint, filters repositories.AlertFilters) ([]*models.Alert, error) {
	query := a.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("exam_id = ?", examID).
		Preload("Student")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var alerts []*models.Alert
	if err := query.Order("id ASC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts by exam: %w", err)
	}

	return alerts, nil
}

// Update only ever touches the review status; detector payloads are immutable.
func (a *AlertPostgreSQL) Update(ctx context.Context, alert *models.Alert) error {
	result := a.db.WithContext(ctx).Model(&models.Alert{}).Where("id = ?", alert.ID).Updates(map[string]interface{}{
		"status":     alert.Status,
		"updated_at": alert.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	return nil
}
