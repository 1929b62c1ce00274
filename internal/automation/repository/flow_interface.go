package repository

import (
	"time"

	automationdomain "automail-backend/internal/automation/domain"
)

// FlowRepository defines the interface for automation flow persistence
type FlowRepository interface {
	Create(flow *automationdomain.AutomationFlow) error
	FindAll() ([]*automationdomain.AutomationFlow, error)
	FindByID(id string) (*automationdomain.AutomationFlow, error)
	Update(flow *automationdomain.AutomationFlow) error
	Delete(id string) error
	// FindDue returns enabled flows whose next run is unset or has passed.
	FindDue(now time.Time) ([]*automationdomain.AutomationFlow, error)
	// UpdateRunTimes records a successful run without touching other columns.
	UpdateRunTimes(id string, lastRun, nextRun *time.Time) error
}
