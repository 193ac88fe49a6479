package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/updates"
)

// UpdateCheckScheduler polls the update server on a cron schedule and
// applies any pending content deltas to the local store.
type UpdateCheckScheduler struct {
	client   *updates.Client
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isChecking bool
	cancelFunc context.CancelFunc
}

// NewUpdateCheckScheduler creates a new scheduler instance
func NewUpdateCheckScheduler(client *updates.Client, schedule string) *UpdateCheckScheduler {
	return &UpdateCheckScheduler{
		client:   client,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
	}
}

// Start begins the scheduler
func (s *UpdateCheckScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runCheck()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Update check scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *UpdateCheckScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancelFunc = nil
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete. The
	// wait happens outside the lock: a finishing check needs it to clear
	// its in-progress flag.
	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Printf("Update check scheduler: stopped")
}

// RunNow triggers an immediate check
func (s *UpdateCheckScheduler) RunNow() {
	go s.runCheck()
}

// IsRunning returns whether the scheduler is active
func (s *UpdateCheckScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsChecking returns whether a check is currently in progress
func (s *UpdateCheckScheduler) IsChecking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isChecking
}

// GetNextRunTime returns when the next check will occur
func (s *UpdateCheckScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runCheck performs the actual update check
func (s *UpdateCheckScheduler) runCheck() {
	s.mu.Lock()
	if s.isChecking {
		s.mu.Unlock()
		log.Printf("Update check: skipped (already in progress)")
		return
	}
	s.isChecking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isChecking = false
		s.mu.Unlock()
	}()

	log.Printf("Update check: starting")
	startTime := time.Now()

	result, err := s.client.CheckAndApply()
	if err != nil {
		log.Printf("Update check: failed: %v", err)
		return
	}

	duration := time.Since(startTime)
	if result.UpToDate {
		log.Printf("Update check: already at version %d, nothing to apply", result.ToVersion)
		return
	}
	log.Printf("Update check: applied %d changes, now at version %d (took %v)",
		result.Applied, result.ToVersion, duration.Round(time.Millisecond))
}
