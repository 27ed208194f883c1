// Package admin implements the admin punch editor (C6): editing or
// deleting existing attendance records and re-running the metrics engine
// and aggregator rebuild for the affected day, plus schedule assignment.
package admin

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

// Rebuilder is the slice of the daily summary aggregator (C5) this editor
// drives in rebuild mode.
type Rebuilder interface {
	Rebuild(ctx context.Context, uid, workDate string) error
}

type Editor struct {
	records   attendance.Repository
	users     user.Repository
	rebuilder Rebuilder
	clock     clock.Clock
}

func New(records attendance.Repository, users user.Repository, rebuilder Rebuilder, clk clock.Clock) *Editor {
	return &Editor{records: records, users: users, rebuilder: rebuilder, clock: clk}
}

// EditPunch overwrites the supplied fields of a record, falling back to
// the stored value for whichever is omitted. If the resulting pair is
// complete, metrics are recomputed and the day's summary rebuilt.
func (e *Editor) EditPunch(ctx context.Context, punchID string, punchIn, punchOut *time.Time) (*attendance.AttendanceRecord, error) {
	record, err := e.records.Get(ctx, punchID)
	if err != nil {
		return nil, attendance.Internal("load attendance record", err)
	}
	if record == nil {
		return nil, attendance.NotFound("attendance record not found")
	}

	newPunchIn := record.PunchIn
	if punchIn != nil {
		newPunchIn = *punchIn
	}

	var newPunchOut *time.Time
	if punchOut != nil {
		newPunchOut = punchOut
	} else if closedAt, ok := record.PunchOut.IsClosed(); ok {
		newPunchOut = &closedAt
	}

	now := e.clock.Now()
	patch := attendance.Update{UpdatedAt: now}
	piPtr := newPunchIn
	patch.PunchIn = &piPtr
	adminEdited := true
	patch.AdminEdited = &adminEdited

	if newPunchOut == nil {
		if err := e.records.Update(ctx, punchID, patch); err != nil {
			return nil, attendance.Internal("update attendance record", err)
		}
		record.PunchIn = newPunchIn
		record.AdminEdited = true
		return record, nil
	}

	u, err := e.users.Get(ctx, record.UID)
	if err != nil {
		return nil, attendance.Internal("load user", err)
	}
	if u == nil {
		return nil, attendance.NotFound("user profile not found")
	}
	if !u.HasSchedule() {
		return nil, attendance.PreconditionFailed("no schedule configured")
	}

	m := metrics.Compute(newPunchIn, *newPunchOut, metrics.Schedule{Start: u.Schedule.Start, End: u.Schedule.End})
	closedState := attendance.Closed(*newPunchOut)
	patch.PunchOut = &closedState
	patch.Metrics = &m

	if err := e.records.Update(ctx, punchID, patch); err != nil {
		return nil, attendance.Internal("update attendance record", err)
	}

	if err := e.rebuilder.Rebuild(ctx, record.UID, m.WorkDate); err != nil {
		return nil, attendance.Internal("rebuild daily summary", err)
	}

	record.PunchIn = newPunchIn
	record.PunchOut = closedState
	record.Metrics = &m
	record.AdminEdited = true
	return record, nil
}

// DeletePunch hard-deletes the record and rebuilds the affected day's
// summary.
func (e *Editor) DeletePunch(ctx context.Context, punchID string) error {
	record, err := e.records.Get(ctx, punchID)
	if err != nil {
		return attendance.Internal("load attendance record", err)
	}
	if record == nil {
		return attendance.NotFound("attendance record not found")
	}

	workDate := metrics.LocalDate(record.PunchIn)
	if record.Metrics != nil {
		workDate = record.Metrics.WorkDate
	}

	if err := e.records.Delete(ctx, punchID); err != nil {
		return attendance.Internal("delete attendance record", err)
	}

	if err := e.rebuilder.Rebuild(ctx, record.UID, workDate); err != nil {
		return attendance.Internal("rebuild daily summary", err)
	}
	return nil
}

// AssignSchedule patches a user's schedule and/or timezone. At least one
// must be supplied.
func (e *Editor) AssignSchedule(ctx context.Context, uid string, schedule *user.Schedule, timezone *string) (*user.User, error) {
	if schedule == nil && timezone == nil {
		return nil, attendance.BadRequest("schedule or timezone must be supplied")
	}
	if schedule != nil {
		_, startErr := time.Parse("15:04", schedule.Start)
		_, endErr := time.Parse("15:04", schedule.End)
		if startErr != nil || endErr != nil {
			return nil, attendance.BadRequest("schedule.start and schedule.end must be non-empty HH:MM times")
		}
	}

	u, err := e.users.Get(ctx, uid)
	if err != nil {
		return nil, attendance.Internal("load user", err)
	}
	if u == nil {
		return nil, attendance.NotFound("user profile not found")
	}

	if err := e.users.Update(ctx, uid, user.Update{Schedule: schedule, Timezone: timezone}); err != nil {
		return nil, attendance.Internal("update user schedule", err)
	}

	if schedule != nil {
		u.Schedule = schedule
	}
	if timezone != nil {
		u.Timezone = *timezone
	}
	return u, nil
}
