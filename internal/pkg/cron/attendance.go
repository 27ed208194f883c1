package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
)

// Rebuilder is the slice of the daily summary aggregator (C5) the
// reconciliation sweep drives in rebuild mode.
type Rebuilder interface {
	Rebuild(ctx context.Context, uid, workDate string) error
}

// AttendanceJobs hosts the reconciliation sweep: periodically rebuilding
// every (uid, workDate) daily summary touched by a punch in the lookback
// window, restoring convergence after any aggregator write was missed or
// raced without requiring every read to pay that cost.
type AttendanceJobs struct {
	records   attendance.Repository
	rebuilder Rebuilder
	lookback  time.Duration
}

func NewAttendanceJobs(records attendance.Repository, rebuilder Rebuilder, lookback time.Duration) *AttendanceJobs {
	return &AttendanceJobs{records: records, rebuilder: rebuilder, lookback: lookback}
}

// RegisterJobs wires the sweep onto the scheduler at the configured
// interval.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("reconcile_daily_summaries", interval, j.ReconcileDailySummaries)
}

// ReconcileDailySummaries rebuilds the daily summary for every distinct
// (uid, workDate) pair with a punchIn inside the lookback window.
func (j *AttendanceJobs) ReconcileDailySummaries(ctx context.Context) error {
	since := time.Now().UTC().Add(-j.lookback)

	records, err := j.records.Query(ctx, attendance.Query{PunchInAfter: since})
	if err != nil {
		return fmt.Errorf("query recent attendance: %w", err)
	}

	type pair struct {
		uid      string
		workDate string
	}
	seen := make(map[pair]struct{})
	for _, rec := range records {
		workDate := metrics.LocalDate(rec.PunchIn)
		seen[pair{uid: rec.UID, workDate: workDate}] = struct{}{}
	}

	rebuilt := 0
	for p := range seen {
		if err := j.rebuilder.Rebuild(ctx, p.uid, p.workDate); err != nil {
			slog.Error("reconcile: rebuild failed", "uid", p.uid, "workDate", p.workDate, "error", err)
			continue
		}
		rebuilt++
	}

	slog.Info("reconcile: daily summaries rebuilt", "count", rebuilt, "window", j.lookback)
	return nil
}
