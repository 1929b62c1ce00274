package repository

import (
	"errors"
	"time"

	automationdomain "automail-backend/internal/automation/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// flowRepository implements FlowRepository interface
type flowRepository struct {
	db *gorm.DB
}

// NewFlowRepository creates a new instance of flowRepository
func NewFlowRepository(db *gorm.DB) FlowRepository {
	return &flowRepository{
		db: db,
	}
}

func (r *flowRepository) Create(flow *automationdomain.AutomationFlow) error {
	flow.ID = uuid.New().String()
	flow.CreatedAt = time.Now()
	flow.UpdatedAt = time.Now()
	return r.db.Create(flow).Error
}

func (r *flowRepository) FindAll() ([]*automationdomain.AutomationFlow, error) {
	var flows []*automationdomain.AutomationFlow
	if err := r.db.Order("created_at ASC").Find(&flows).Error; err != nil {
		return nil, err
	}
	return flows, nil
}

func (r *flowRepository) FindByID(id string) (*automationdomain.AutomationFlow, error) {
	var flow automationdomain.AutomationFlow
	err := r.db.Where("id = ?", id).First(&flow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flow, nil
}

func (r *flowRepository) Update(flow *automationdomain.AutomationFlow) error {
	flow.UpdatedAt = time.Now()
	return r.db.Save(flow).Error
}

func (r *flowRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&automationdomain.AutomationFlow{}).Error
}

func (r *flowRepository) FindDue(now time.Time) ([]*automationdomain.AutomationFlow, error) {
	var flows []*automationdomain.AutomationFlow
	err := r.db.
		Where("enabled = ?", true).
		Where("next_run IS NULL OR next_run <= ?", now).
		Order("created_at ASC").
		Find(&flows).Error
	if err != nil {
		return nil, err
	}
	return flows, nil
}

func (r *flowRepository) UpdateRunTimes(id string, lastRun, nextRun *time.Time) error {
	return r.db.Model(&automationdomain.AutomationFlow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run":   lastRun,
			"next_run":   nextRun,
			"updated_at": time.Now(),
		}).Error
}
