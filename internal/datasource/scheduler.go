package datasource

import (
	"context"
	"fmt"

	"github.com/google/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic jobs such as dataset refreshes and session cleanup.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Every registers fn under a cron spec such as "@every 5m".
func (s *Scheduler) Every(spec, name string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("scheduling %s with %q: %w", name, spec, err)
	}
	logger.Infof("Scheduled %s %s", name, spec)
	return nil
}

// Refresh registers a periodic reload of src.
func (s *Scheduler) Refresh(ctx context.Context, spec string, src *FileSource) error {
	return s.Every(spec, "refresh of "+src.Path, func() {
		if _, err := src.Load(ctx); err != nil {
			logger.Errorf("Refreshing %s: %v", src.Path, err)
		}
	})
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
