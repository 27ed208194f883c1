// Package summary implements the daily summary aggregator (C5): upsert
// on a fresh punch-out, and rebuild from scratch after an admin edit or
// delete or on the reconciliation scheduler's sweep.
package summary

import (
	"context"
	"math"
	"sort"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
	"github.com/cmlabs-hris/attendance-go/internal/domain/summary"
)

type Aggregator struct {
	records   attendance.Repository
	summaries summary.Repository
	clock     clock.Clock
}

func New(records attendance.Repository, summaries summary.Repository, clk clock.Clock) *Aggregator {
	return &Aggregator{records: records, summaries: summaries, clock: clk}
}

// Upsert folds one freshly completed record's metrics into the existing
// rollup, or creates one if none exists. Order-sensitive: assumes ref is
// the latest punch-out so far for (uid, workDate).
func (a *Aggregator) Upsert(ctx context.Context, uid, workDate string, ref attendance.PunchRef, m metrics.Metrics) error {
	id := summary.ID(uid, workDate)
	existing, err := a.summaries.Get(ctx, id)
	if err != nil {
		return attendance.Internal("load existing summary", err)
	}

	now := a.clock.Now()
	if existing == nil {
		doc := &summary.DailySummary{
			ID:               id,
			UID:              uid,
			WorkDate:         workDate,
			RegularHours:     m.RegularHours,
			OvertimeHours:    m.OvertimeHours,
			NightDiffHours:   m.NightDiffHours,
			TotalWorkedHours: m.TotalWorkedHours,
			LateMinutes:      m.LateMinutes,
			UndertimeMinutes: m.UndertimeMinutes,
			Punches:          []attendance.PunchRef{ref},
			UpdatedAt:        now,
		}
		return a.save(ctx, doc)
	}

	existing.RegularHours = round2(existing.RegularHours + m.RegularHours)
	existing.OvertimeHours = round2(existing.OvertimeHours + m.OvertimeHours)
	existing.NightDiffHours = round2(existing.NightDiffHours + m.NightDiffHours)
	existing.TotalWorkedHours = round2(existing.TotalWorkedHours + m.TotalWorkedHours)
	// LateMinutes retained: the first punch of the day already set it.
	existing.UndertimeMinutes = m.UndertimeMinutes
	existing.Punches = append(existing.Punches, ref)
	existing.UpdatedAt = now

	return a.save(ctx, existing)
}

// Rebuild recomputes the rollup for (uid, workDate) from scratch over
// every completed, non-voided record for that user and day. Idempotent;
// deletes the summary entirely if no such record exists (I5).
func (a *Aggregator) Rebuild(ctx context.Context, uid, workDate string) error {
	all, err := a.records.Query(ctx, attendance.Query{UID: uid})
	if err != nil {
		return attendance.Internal("query attendance for rebuild", err)
	}

	completed := make([]*attendance.AttendanceRecord, 0, len(all))
	for _, r := range all {
		if r.Metrics == nil || r.Metrics.WorkDate != workDate {
			continue
		}
		if r.PunchOut.IsOpen() || r.PunchOut.IsVoided() {
			continue
		}
		completed = append(completed, r)
	}

	id := summary.ID(uid, workDate)
	if len(completed) == 0 {
		if err := a.summaries.Delete(ctx, id); err != nil {
			return attendance.Internal("delete empty summary", err)
		}
		return nil
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].PunchIn.Before(completed[j].PunchIn)
	})

	doc := &summary.DailySummary{
		ID:        id,
		UID:       uid,
		WorkDate:  workDate,
		UpdatedAt: a.clock.Now(),
	}
	for _, r := range completed {
		doc.RegularHours = round2(doc.RegularHours + r.Metrics.RegularHours)
		doc.OvertimeHours = round2(doc.OvertimeHours + r.Metrics.OvertimeHours)
		doc.NightDiffHours = round2(doc.NightDiffHours + r.Metrics.NightDiffHours)
		doc.TotalWorkedHours = round2(doc.TotalWorkedHours + r.Metrics.TotalWorkedHours)

		punchOut, _ := r.PunchOut.IsClosed()
		doc.Punches = append(doc.Punches, attendance.PunchRef{
			AttendanceID: r.ID,
			PunchIn:      r.PunchIn,
			PunchOut:     attendance.Closed(punchOut),
		})
	}
	doc.LateMinutes = completed[0].Metrics.LateMinutes
	doc.UndertimeMinutes = completed[len(completed)-1].Metrics.UndertimeMinutes

	return a.save(ctx, doc)
}

func (a *Aggregator) save(ctx context.Context, doc *summary.DailySummary) error {
	if err := a.summaries.Set(ctx, doc); err != nil {
		return attendance.Internal("save daily summary", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
