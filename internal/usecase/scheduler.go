package usecase

import (
	"context"
	"time"

	"PlateIntake/internal/ports"
)

// Scheduler wires the recurring driver with the intake use case.
type Scheduler struct {
	driver ports.Scheduler
	intake *Intake
}

// NewScheduler returns a helper to start/stop recurring sweeps.
func NewScheduler(driver ports.Scheduler, intake *Intake) *Scheduler {
	return &Scheduler{driver: driver, intake: intake}
}

// Start registers the sweep with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.intake == nil {
		return nil
	}

	job := func(time.Time) {
		_, _ = s.intake.Sweep(ctx)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
