package usecase

import (
	"errors"
	"log"
	"time"

	automationdomain "automail-backend/internal/automation/domain"
	"automail-backend/internal/transfer"
	"automail-backend/pkg/imapx"
)

func (u *flowUsecase) RunFlow(id string) (*automationdomain.AutomationExecution, error) {
	flow, err := u.GetFlow(id)
	if err != nil {
		return nil, err
	}
	if !u.tryAcquire(flow.ID) {
		return nil, automationdomain.ErrFlowBusy
	}
	defer u.release(flow.ID)

	execution := &automationdomain.AutomationExecution{
		FlowID:    flow.ID,
		Status:    automationdomain.ExecutionStatusRunning,
		StartedAt: time.Now(),
	}
	if err := u.executionRepo.Create(execution); err != nil {
		return nil, err
	}

	moved, runErr := u.executeFlow(flow)
	completed := time.Now()
	if runErr != nil {
		// The audit record gets the error; run times stay untouched so the
		// scheduler retries on its next tick.
		if err := u.executionRepo.Finalize(execution.ID, automationdomain.ExecutionStatusError, moved, runErr.Error()); err != nil {
			log.Printf("[Automation] failed to finalize execution %s: %v", execution.ID, err)
		}
		execution.Status = automationdomain.ExecutionStatusError
		execution.MovedCount = moved
		execution.ErrorMessage = runErr.Error()
		execution.CompletedAt = &completed
		log.Printf("[Automation] flow %s (%s) failed: %v", flow.Name, flow.ID, runErr)
		return execution, runErr
	}

	if err := u.executionRepo.Finalize(execution.ID, automationdomain.ExecutionStatusSuccess, moved, ""); err != nil {
		log.Printf("[Automation] failed to finalize execution %s: %v", execution.ID, err)
	}
	nextRun := completed.Add(time.Duration(flow.IntervalMinutes) * time.Minute)
	if err := u.flowRepo.UpdateRunTimes(flow.ID, &completed, &nextRun); err != nil {
		log.Printf("[Automation] failed to update run times for flow %s: %v", flow.ID, err)
	}

	execution.Status = automationdomain.ExecutionStatusSuccess
	execution.MovedCount = moved
	execution.CompletedAt = &completed
	log.Printf("[Automation] flow %s (%s) moved %d messages", flow.Name, flow.ID, moved)
	return execution, nil
}

func (u *flowUsecase) RunDueFlows() {
	flows, err := u.flowRepo.FindDue(time.Now())
	if err != nil {
		log.Printf("[Automation] failed to load due flows: %v", err)
		return
	}
	if len(flows) == 0 {
		return
	}

	log.Printf("[Automation] %d flow(s) due", len(flows))
	for _, flow := range flows {
		if _, err := u.RunFlow(flow.ID); err != nil {
			if errors.Is(err, automationdomain.ErrFlowBusy) {
				log.Printf("[Automation] flow %s still running, skipping", flow.ID)
				continue
			}
			// Already logged and audited inside RunFlow; keep the tick going.
		}
	}
}

// executeFlow drains the flow's source mailbox. Credentials for both ends
// are resolved before anything else, so a broken target account (an OAuth
// token that can no longer be refreshed, say) fails the run even when the
// source turns out to be empty. An empty mailbox is then a successful no-op
// that never opens a target session.
func (u *flowUsecase) executeFlow(flow *automationdomain.AutomationFlow) (int, error) {
	sourceCreds, err := u.accountUsecase.CredentialsFor(flow.SourceAccountID)
	if err != nil {
		return 0, err
	}
	targetCreds := sourceCreds
	if flow.TargetAccountID != flow.SourceAccountID {
		targetCreds, err = u.accountUsecase.CredentialsFor(flow.TargetAccountID)
		if err != nil {
			return 0, err
		}
	}

	var uids []uint32
	err = imapx.WithSession(u.dial, sourceCreds, func(c imapx.Client) error {
		path, ok, err := imapx.ResolvePath(c, flow.SourceMailbox)
		if err != nil {
			return err
		}
		if !ok {
			return &imapx.MailboxNotFoundError{Mailbox: flow.SourceMailbox}
		}
		if err := c.OpenFolder(path); err != nil {
			return err
		}
		uids, err = c.SearchAll()
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(uids) == 0 {
		return 0, nil
	}

	var result *transfer.MoveResult
	if flow.SourceAccountID == flow.TargetAccountID {
		result, err = u.mover.MoveWithinAccount(sourceCreds, uids, flow.SourceMailbox, flow.TargetMailbox)
	} else {
		result, err = u.mover.MoveCrossAccount(sourceCreds, targetCreds, uids, flow.SourceMailbox, flow.TargetMailbox)
	}
	if err != nil {
		return 0, err
	}

	if len(result.FailedUIDs) > 0 {
		log.Printf("[Automation] flow %s: %d of %d messages failed to move", flow.ID, len(result.FailedUIDs), len(uids))
	}
	return result.SuccessCount, nil
}
