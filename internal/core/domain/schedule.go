package domain

import "time"

type SweepScheduleType string

const (
	SweepInterval   SweepScheduleType = "interval"
	SweepCountBased SweepScheduleType = "count_based"
)

// SweepJob configures when the worker sweeps the backlog of pending RFPs
// through the analysis pipeline.
type SweepJob struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Enabled         bool              `json:"enabled"`
	ScheduleType    SweepScheduleType `json:"schedule_type"`
	IntervalMinutes int               `json:"interval_minutes,omitempty"`
	MinPendingRFPs  int               `json:"min_pending_rfps,omitempty"`
	LastRun         *time.Time        `json:"last_run,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Due reports whether the job should fire given the current time and the
// number of RFPs waiting for analysis.
func (j *SweepJob) Due(now time.Time, pendingCount int) bool {
	if !j.Enabled {
		return false
	}
	switch j.ScheduleType {
	case SweepInterval:
		interval := j.IntervalMinutes
		if interval <= 0 {
			interval = 60
		}
		if j.LastRun == nil {
			return true
		}
		return now.Sub(*j.LastRun) >= time.Duration(interval)*time.Minute
	case SweepCountBased:
		min := j.MinPendingRFPs
		if min <= 0 {
			min = 5
		}
		return pendingCount >= min
	default:
		return false
	}
}
