package repository

import (
	automationdomain "automail-backend/internal/automation/domain"
)

// ExecutionRepository defines the interface for flow execution audit records
type ExecutionRepository interface {
	Create(execution *automationdomain.AutomationExecution) error
	// Finalize closes a running execution with its outcome.
	Finalize(id, status string, movedCount int, errorMessage string) error
	FindByFlowID(flowID string, limit int) ([]*automationdomain.AutomationExecution, error)
}
