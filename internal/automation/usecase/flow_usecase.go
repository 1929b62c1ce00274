package usecase

import (
	"errors"
	"fmt"
	"sync"
	"time"

	accountusecase "automail-backend/internal/account/usecase"
	automationdomain "automail-backend/internal/automation/domain"
	automationdto "automail-backend/internal/automation/dto"
	"automail-backend/internal/automation/repository"
	"automail-backend/internal/transfer"
	"automail-backend/pkg/imapx"
)

const defaultIntervalMinutes = 60

// flowUsecase implements FlowUsecase interface
type flowUsecase struct {
	flowRepo       repository.FlowRepository
	executionRepo  repository.ExecutionRepository
	accountUsecase accountusecase.AccountUsecase
	mover          *transfer.Mover
	dial           imapx.DialFunc

	mu      sync.Mutex
	running map[string]bool
}

// NewFlowUsecase creates a new instance of flowUsecase
func NewFlowUsecase(
	flowRepo repository.FlowRepository,
	executionRepo repository.ExecutionRepository,
	accountUsecase accountusecase.AccountUsecase,
	mover *transfer.Mover,
	dial imapx.DialFunc,
) FlowUsecase {
	return &flowUsecase{
		flowRepo:       flowRepo,
		executionRepo:  executionRepo,
		accountUsecase: accountUsecase,
		mover:          mover,
		dial:           dial,
		running:        make(map[string]bool),
	}
}

func (u *flowUsecase) ListFlows() ([]*automationdomain.AutomationFlow, error) {
	return u.flowRepo.FindAll()
}

func (u *flowUsecase) GetFlow(id string) (*automationdomain.AutomationFlow, error) {
	flow, err := u.flowRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if flow == nil {
		return nil, automationdomain.ErrFlowNotFound
	}
	return flow, nil
}

func (u *flowUsecase) CreateFlow(req *automationdto.CreateFlowRequest) (*automationdomain.AutomationFlow, error) {
	if _, err := u.accountUsecase.GetAccount(req.SourceAccountID); err != nil {
		return nil, fmt.Errorf("source account: %w", err)
	}
	if _, err := u.accountUsecase.GetAccount(req.TargetAccountID); err != nil {
		return nil, fmt.Errorf("target account: %w", err)
	}

	interval := req.IntervalMinutes
	if interval == 0 {
		interval = defaultIntervalMinutes
	}
	if interval < 1 {
		return nil, errors.New("interval_minutes must be at least 1")
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	// Prime the next run so the scheduler picks the flow up on its next tick.
	now := time.Now()
	flow := &automationdomain.AutomationFlow{
		Name:            req.Name,
		SourceAccountID: req.SourceAccountID,
		TargetAccountID: req.TargetAccountID,
		SourceMailbox:   req.SourceMailbox,
		TargetMailbox:   req.TargetMailbox,
		Enabled:         enabled,
		IntervalMinutes: interval,
		NextRun:         &now,
	}
	if err := u.flowRepo.Create(flow); err != nil {
		return nil, err
	}
	return flow, nil
}

func (u *flowUsecase) UpdateFlow(id string, req *automationdto.UpdateFlowRequest) (*automationdomain.AutomationFlow, error) {
	flow, err := u.GetFlow(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		flow.Name = req.Name
	}
	if req.SourceMailbox != "" {
		flow.SourceMailbox = req.SourceMailbox
	}
	if req.TargetMailbox != "" {
		flow.TargetMailbox = req.TargetMailbox
	}
	if req.IntervalMinutes != nil {
		if *req.IntervalMinutes < 1 {
			return nil, errors.New("interval_minutes must be at least 1")
		}
		flow.IntervalMinutes = *req.IntervalMinutes
	}
	if req.Enabled != nil {
		flow.Enabled = *req.Enabled
	}

	if err := u.flowRepo.Update(flow); err != nil {
		return nil, err
	}
	return flow, nil
}

func (u *flowUsecase) DeleteFlow(id string) error {
	if _, err := u.GetFlow(id); err != nil {
		return err
	}
	return u.flowRepo.Delete(id)
}

func (u *flowUsecase) ListExecutions(flowID string, limit int) ([]*automationdomain.AutomationExecution, error) {
	if _, err := u.GetFlow(flowID); err != nil {
		return nil, err
	}
	return u.executionRepo.FindByFlowID(flowID, limit)
}

func (u *flowUsecase) tryAcquire(flowID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running[flowID] {
		return false
	}
	u.running[flowID] = true
	return true
}

func (u *flowUsecase) release(flowID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.running, flowID)
}
