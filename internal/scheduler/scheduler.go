package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/models"
	"github.com/yourusername/stockcast/internal/service"
)

// NewsRefresher warms sentiment coverage for a symbol as of a given day.
type NewsRefresher interface {
	Lookup(ctx context.Context, symbol, name string, asOf time.Time) (models.SentimentScore, error)
}

// Scheduler manages scheduled bar synchronization jobs
type Scheduler struct {
	cron            *cron.Cron
	ingestionSvc    *service.IngestionService
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(ingestionSvc *service.IngestionService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc:    ingestionSvc,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleBarSync schedules a full bar synchronization for the given symbols
func (s *Scheduler) ScheduleBarSync(cronExpression string, symbols []string, period string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to sync")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
		defer cancel()

		s.logger.WithFields(logrus.Fields{
			"symbols": len(symbols),
			"period":  period,
		}).Info("Starting scheduled bar sync")

		if err := s.ingestionSvc.SyncSymbols(ctx, symbols, period); err != nil {
			s.logger.WithField("error", err.Error()).Error("Scheduled bar sync failed")
			return
		}
		s.logger.Info("Scheduled bar sync completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled bar sync job")

	return nil
}

// ScheduleLiveRefresh schedules a short-window refresh of recent bars
func (s *Scheduler) ScheduleLiveRefresh(intervalSeconds int, symbols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to refresh")
	}

	if intervalSeconds < 60 {
		intervalSeconds = 60
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if err := s.ingestionSvc.SyncSymbols(ctx, symbols, "5d"); err != nil {
			s.logger.WithField("error", err.Error()).Error("Live bar refresh failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled live refresh job")

	return nil
}

// ScheduleNewsRefresh schedules a daily sentiment prefetch so backtests
// start with a warm cache. Lookups use yesterday's close, the most
// recent day the oracle will answer for.
func (s *Scheduler) ScheduleNewsRefresh(cronExpression string, refresher NewsRefresher, symbols map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if refresher == nil {
		return fmt.Errorf("news refresher is required")
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to refresh")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		asOf := time.Now().UTC().AddDate(0, 0, -1)
		for symbol, name := range symbols {
			if _, err := refresher.Lookup(ctx, symbol, name, asOf); err != nil {
				s.logger.WithFields(logrus.Fields{
					"symbol": symbol,
					"error":  err.Error(),
				}).Warn("News refresh failed")
			}
		}
		s.logger.WithField("symbols", len(symbols)).Info("News refresh completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled news refresh job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
