package scheduler

import (
	"log"
	"time"

	"automail-backend/internal/automation/usecase"
)

// FlowScheduler periodically runs every automation flow that is due
type FlowScheduler struct {
	flowUsecase usecase.FlowUsecase
	interval    time.Duration
	stopChan    chan struct{}
}

// NewFlowScheduler creates a new scheduler
func NewFlowScheduler(flowUsecase usecase.FlowUsecase, interval time.Duration) *FlowScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &FlowScheduler{
		flowUsecase: flowUsecase,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *FlowScheduler) Start() {
	log.Printf("[Scheduler] Starting automation scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.flowUsecase.RunDueFlows()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.flowUsecase.RunDueFlows()
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *FlowScheduler) Stop() {
	close(s.stopChan)
}
