package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rfp-optimize/platform/internal/core/ports"
)

// SweepUseCase periodically pushes pending RFPs through the processor. It
// backs up the queue path: anything that never made it onto the queue, or
// failed mid-flight, gets retried here.
type SweepUseCase struct {
	rfps      ports.RFPRepository
	jobs      ports.SweepJobRepository
	processor ports.RFPProcessor
	now       func() time.Time
}

func NewSweepUseCase(rfps ports.RFPRepository, jobs ports.SweepJobRepository, processor ports.RFPProcessor) *SweepUseCase {
	return &SweepUseCase{rfps: rfps, jobs: jobs, processor: processor, now: time.Now}
}

// RunDueJobs evaluates every enabled sweep job and, if any is due, processes
// the pending backlog once. Returns the number of RFPs processed.
func (uc *SweepUseCase) RunDueJobs(ctx context.Context) (int, error) {
	jobs, err := uc.jobs.ListEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sweep jobs: %w", err)
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	pending, err := uc.rfps.CountPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("count pending rfps: %w", err)
	}

	now := uc.now().UTC()
	due := false
	for i := range jobs {
		if !jobs[i].Due(now, pending) {
			continue
		}
		due = true
		if err := uc.jobs.StampLastRun(ctx, jobs[i].ID, now); err != nil {
			slog.Warn("sweep_job_stamp_failed", "job_id", jobs[i].ID, "error", err)
		}
	}
	if !due {
		return 0, nil
	}

	return uc.sweepPending(ctx)
}

// SweepNow processes the pending backlog immediately, bypassing the job
// schedule. Backs the admin start-analysis endpoint.
func (uc *SweepUseCase) SweepNow(ctx context.Context) (int, error) {
	return uc.sweepPending(ctx)
}

func (uc *SweepUseCase) sweepPending(ctx context.Context) (int, error) {
	pending, err := uc.rfps.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending rfps: %w", err)
	}

	processed := 0
	for i := range pending {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if err := uc.processor.ProcessByID(ctx, pending[i].ID); err != nil {
			slog.Error("sweep_process_failed", "rfp_id", pending[i].ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}
