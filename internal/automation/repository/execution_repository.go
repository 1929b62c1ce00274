package repository

import (
	"time"

	automationdomain "automail-backend/internal/automation/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// executionRepository implements ExecutionRepository interface
type executionRepository struct {
	db *gorm.DB
}

// NewExecutionRepository creates a new instance of executionRepository
func NewExecutionRepository(db *gorm.DB) ExecutionRepository {
	return &executionRepository{
		db: db,
	}
}

func (r *executionRepository) Create(execution *automationdomain.AutomationExecution) error {
	execution.ID = uuid.New().String()
	if execution.StartedAt.IsZero() {
		execution.StartedAt = time.Now()
	}
	return r.db.Create(execution).Error
}

func (r *executionRepository) Finalize(id, status string, movedCount int, errorMessage string) error {
	now := time.Now()
	return r.db.Model(&automationdomain.AutomationExecution{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"moved_count":   movedCount,
			"error_message": errorMessage,
			"completed_at":  &now,
		}).Error
}

func (r *executionRepository) FindByFlowID(flowID string, limit int) ([]*automationdomain.AutomationExecution, error) {
	var executions []*automationdomain.AutomationExecution
	q := r.db.Where("flow_id = ?", flowID).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&executions).Error; err != nil {
		return nil, err
	}
	return executions, nil
}
