package usecase

import (
	automationdomain "automail-backend/internal/automation/domain"
	automationdto "automail-backend/internal/automation/dto"
)

// FlowUsecase defines the interface for automation flow use cases
type FlowUsecase interface {
	ListFlows() ([]*automationdomain.AutomationFlow, error)
	GetFlow(id string) (*automationdomain.AutomationFlow, error)
	CreateFlow(req *automationdto.CreateFlowRequest) (*automationdomain.AutomationFlow, error)
	UpdateFlow(id string, req *automationdto.UpdateFlowRequest) (*automationdomain.AutomationFlow, error)
	DeleteFlow(id string) error
	// RunFlow executes one flow now and returns the finalized audit record.
	// A flow already running returns ErrFlowBusy.
	RunFlow(id string) (*automationdomain.AutomationExecution, error)
	// RunDueFlows executes every enabled flow whose next run has passed.
	// Called by the scheduler tick.
	RunDueFlows()
	ListExecutions(flowID string, limit int) ([]*automationdomain.AutomationExecution, error)
}
