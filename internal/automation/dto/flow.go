package dto

type CreateFlowRequest struct {
	Name            string `json:"name" binding:"required"`
	SourceAccountID string `json:"source_account_id" binding:"required"`
	TargetAccountID string `json:"target_account_id" binding:"required"`
	SourceMailbox   string `json:"source_mailbox" binding:"required"`
	TargetMailbox   string `json:"target_mailbox" binding:"required"`
	IntervalMinutes int    `json:"interval_minutes"`
	Enabled         *bool  `json:"enabled"`
}

type UpdateFlowRequest struct {
	Name            string `json:"name"`
	SourceMailbox   string `json:"source_mailbox"`
	TargetMailbox   string `json:"target_mailbox"`
	IntervalMinutes *int   `json:"interval_minutes"`
	Enabled         *bool  `json:"enabled"`
}
