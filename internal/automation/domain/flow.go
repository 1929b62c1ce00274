package domain

import (
	"errors"
	"time"

	accountdomain "automail-backend/internal/account/domain"
)

var (
	ErrFlowNotFound = errors.New("automation flow not found")
	// ErrFlowBusy rejects a run while a previous run of the same flow is
	// still in flight.
	ErrFlowBusy = errors.New("automation flow is already running")
)

const (
	ExecutionStatusRunning = "running"
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// AutomationFlow periodically moves every message from a source mailbox to a
// target mailbox, possibly on a different account. Mailbox fields hold either
// a literal path or a special-use reference like `\Archive`.
type AutomationFlow struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	SourceAccountID string                    `json:"source_account_id"`
	SourceAccount   accountdomain.MailAccount `json:"-" gorm:"foreignKey:SourceAccountID;constraint:OnDelete:CASCADE"`
	TargetAccountID string                    `json:"target_account_id"`
	TargetAccount   accountdomain.MailAccount `json:"-" gorm:"foreignKey:TargetAccountID;constraint:OnDelete:CASCADE"`
	SourceMailbox   string                    `json:"source_mailbox"`
	TargetMailbox   string                    `json:"target_mailbox"`
	Enabled         bool                      `json:"enabled"`
	IntervalMinutes int                       `json:"interval_minutes"`
	LastRun         *time.Time                `json:"last_run"`
	NextRun         *time.Time                `json:"next_run"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// AutomationExecution is one audit record per flow run. Rows are append-only:
// they are created as running and finalized exactly once.
type AutomationExecution struct {
	ID           string         `json:"id"`
	FlowID       string         `json:"flow_id"`
	Flow         AutomationFlow `json:"-" gorm:"foreignKey:FlowID;constraint:OnDelete:CASCADE"`
	Status       string         `json:"status"`
	MovedCount   int            `json:"moved_count"`
	ErrorMessage string         `json:"error_message,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
}
