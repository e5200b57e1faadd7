package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

func TestRunDueJobsIntervalFiresOnFirstRun(t *testing.T) {
	rfps := newFakeRFPRepo(pendingRFP("rfp-1"), pendingRFP("rfp-2"))
	jobs := &fakeSweepJobRepo{jobs: []domain.SweepJob{{
		ID:           "job-1",
		Enabled:      true,
		ScheduleType: domain.SweepInterval,
	}}}
	processor := &fakeProcessor{}

	uc := NewSweepUseCase(rfps, jobs, processor)
	processed, err := uc.RunDueJobs(context.Background())
	if err != nil {
		t.Fatalf("RunDueJobs: %v", err)
	}
	if processed != 2 {
		t.Fatalf("processed = %d, want 2", processed)
	}
	if len(jobs.stamped) != 1 || jobs.stamped[0] != "job-1" {
		t.Fatalf("stamped = %v", jobs.stamped)
	}
}

func TestRunDueJobsIntervalRespectsLastRun(t *testing.T) {
	recent := time.Now().Add(-5 * time.Minute)
	rfps := newFakeRFPRepo(pendingRFP("rfp-1"))
	jobs := &fakeSweepJobRepo{jobs: []domain.SweepJob{{
		ID:              "job-1",
		Enabled:         true,
		ScheduleType:    domain.SweepInterval,
		IntervalMinutes: 60,
		LastRun:         &recent,
	}}}
	processor := &fakeProcessor{}

	uc := NewSweepUseCase(rfps, jobs, processor)
	processed, err := uc.RunDueJobs(context.Background())
	if err != nil {
		t.Fatalf("RunDueJobs: %v", err)
	}
	if processed != 0 {
		t.Fatalf("processed = %d, want 0", processed)
	}
	if len(processor.processed) != 0 {
		t.Fatalf("processor ran: %v", processor.processed)
	}
}

func TestRunDueJobsCountBasedThreshold(t *testing.T) {
	rfps := newFakeRFPRepo(pendingRFP("rfp-1"), pendingRFP("rfp-2"), pendingRFP("rfp-3"))
	jobs := &fakeSweepJobRepo{jobs: []domain.SweepJob{{
		ID:             "job-1",
		Enabled:        true,
		ScheduleType:   domain.SweepCountBased,
		MinPendingRFPs: 3,
	}}}
	processor := &fakeProcessor{}

	uc := NewSweepUseCase(rfps, jobs, processor)
	processed, err := uc.RunDueJobs(context.Background())
	if err != nil {
		t.Fatalf("RunDueJobs: %v", err)
	}
	if processed != 3 {
		t.Fatalf("processed = %d, want 3", processed)
	}
}

func TestRunDueJobsSkipsDisabled(t *testing.T) {
	rfps := newFakeRFPRepo(pendingRFP("rfp-1"))
	jobs := &fakeSweepJobRepo{jobs: []domain.SweepJob{{
		ID:           "job-1",
		Enabled:      false,
		ScheduleType: domain.SweepInterval,
	}}}
	processor := &fakeProcessor{}

	uc := NewSweepUseCase(rfps, jobs, processor)
	processed, err := uc.RunDueJobs(context.Background())
	if err != nil {
		t.Fatalf("RunDueJobs: %v", err)
	}
	if processed != 0 {
		t.Fatalf("processed = %d, want 0", processed)
	}
}
