// Package attendance implements the punch service (C4): opening,
// closing, and voiding attendance records, enforcing the single-open-
// punch invariant, invoking the metrics engine, and triggering the daily
// summary aggregator.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
	"github.com/cmlabs-hris/attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

// PunchEvent is published to the live feed (C10) on every successful
// state transition. Publishing is best-effort: a service method never
// fails or blocks on it.
type PunchEvent struct {
	Type         string
	UID          string
	AttendanceID string
	At           time.Time
}

const (
	EventPunchIn     = "punch_in"
	EventPunchOut    = "punch_out"
	EventPunchVoided = "punch_voided"
)

// EventPublisher is the live-feed sink. Nil is a valid, no-op publisher.
type EventPublisher interface {
	Publish(e PunchEvent)
}

// Aggregator is the slice of the daily summary aggregator (C5) this
// service drives in upsert mode.
type Aggregator interface {
	Upsert(ctx context.Context, uid, workDate string, ref attendance.PunchRef, m metrics.Metrics) error
}

// StatusResult is the response of Status.
type StatusResult struct {
	PunchedIn   bool
	OpenPunch   *attendance.AttendanceRecord
	TodaySummary *summary.DailySummary
}

// PunchOutResult is the response of PunchOut.
type PunchOutResult struct {
	ID       string
	PunchOut time.Time
	Metrics  metrics.Metrics
}

type Service struct {
	records    attendance.Repository
	summaries  summary.Repository
	users      user.Repository
	clock      clock.Clock
	aggregator Aggregator
	publisher  EventPublisher
}

func New(records attendance.Repository, summaries summary.Repository, users user.Repository, clk clock.Clock, aggregator Aggregator, publisher EventPublisher) *Service {
	return &Service{
		records:    records,
		summaries:  summaries,
		users:      users,
		clock:      clk,
		aggregator: aggregator,
		publisher:  publisher,
	}
}

func (s *Service) publish(e PunchEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(e)
}

// Status returns the caller's open punch, if any, and today's summary
// keyed by today's UTC date (not the local workDate; see design notes).
func (s *Service) Status(ctx context.Context, uid string) (*StatusResult, error) {
	records, err := s.records.Query(ctx, attendance.Query{UID: uid, OnlyOpen: true, Limit: 1})
	if err != nil {
		return nil, attendance.Internal("query open punch", err)
	}

	result := &StatusResult{}
	if len(records) > 0 {
		result.PunchedIn = true
		result.OpenPunch = records[0]
	}

	todayUTC := s.clock.Now().UTC().Format("2006-01-02")
	todaySummary, err := s.summaries.Get(ctx, summary.ID(uid, todayUTC))
	if err != nil {
		return nil, attendance.Internal("load today's summary", err)
	}
	result.TodaySummary = todaySummary

	return result, nil
}

// PunchIn opens a new attendance record for uid. Fails with Conflict if
// one is already open. No schedule lookup is performed here.
func (s *Service) PunchIn(ctx context.Context, uid string) (string, time.Time, error) {
	open, err := s.records.Query(ctx, attendance.Query{UID: uid, OnlyOpen: true, Limit: 1})
	if err != nil {
		return "", time.Time{}, attendance.Internal("query open punch", err)
	}
	if len(open) > 0 {
		return "", time.Time{}, attendance.Conflict("already have an open punch")
	}

	now := s.clock.Now()
	record := &attendance.AttendanceRecord{
		UID:       uid,
		PunchIn:   now,
		PunchOut:  attendance.Open(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.records.Create(ctx, record)
	if err != nil {
		return "", time.Time{}, attendance.Internal("create attendance record", err)
	}

	s.publish(PunchEvent{Type: EventPunchIn, UID: uid, AttendanceID: id, At: now})
	return id, now, nil
}

// PunchOut closes the caller's open punch, computes metrics against the
// user's configured schedule, and upserts the daily summary.
func (s *Service) PunchOut(ctx context.Context, uid string) (*PunchOutResult, error) {
	open, err := s.records.Query(ctx, attendance.Query{UID: uid, OnlyOpen: true, Limit: 1})
	if err != nil {
		return nil, attendance.Internal("query open punch", err)
	}
	if len(open) == 0 {
		return nil, attendance.NotFound("no open punch")
	}
	record := open[0]

	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, attendance.Internal("load user", err)
	}
	if u == nil {
		return nil, attendance.NotFound("user profile not found")
	}
	if !u.HasSchedule() {
		return nil, attendance.PreconditionFailed("no schedule configured")
	}

	now := s.clock.Now()
	m := metrics.Compute(record.PunchIn, now, metrics.Schedule{Start: u.Schedule.Start, End: u.Schedule.End})

	punchOutState := attendance.Closed(now)
	if err := s.records.Update(ctx, record.ID, attendance.Update{
		PunchOut:  &punchOutState,
		Metrics:   &m,
		UpdatedAt: now,
	}); err != nil {
		return nil, attendance.Internal("close attendance record", err)
	}

	ref := attendance.PunchRef{AttendanceID: record.ID, PunchIn: record.PunchIn, PunchOut: punchOutState}
	if err := s.aggregator.Upsert(ctx, uid, m.WorkDate, ref, m); err != nil {
		return nil, fmt.Errorf("upsert daily summary: %w", err)
	}

	s.publish(PunchEvent{Type: EventPunchOut, UID: uid, AttendanceID: record.ID, At: now})
	return &PunchOutResult{ID: record.ID, PunchOut: now, Metrics: m}, nil
}

// CancelOpenPunch voids a still-open punch belonging to uid.
func (s *Service) CancelOpenPunch(ctx context.Context, uid, attendanceID string) error {
	record, err := s.records.Get(ctx, attendanceID)
	if err != nil {
		return attendance.Internal("load attendance record", err)
	}
	if record == nil {
		return attendance.NotFound("attendance record not found")
	}
	if record.UID != uid {
		return attendance.Forbidden("does not belong to you")
	}
	if _, closed := record.PunchOut.IsClosed(); closed || record.PunchOut.IsVoided() {
		return attendance.Conflict("already completed")
	}

	now := s.clock.Now()
	voidedState := attendance.Voided()
	reason := "Cancelled by user"
	if err := s.records.Update(ctx, attendanceID, attendance.Update{
		PunchOut:   &voidedState,
		VoidedAt:   &now,
		VoidReason: &reason,
		UpdatedAt:  now,
	}); err != nil {
		return attendance.Internal("void attendance record", err)
	}

	s.publish(PunchEvent{Type: EventPunchVoided, UID: uid, AttendanceID: attendanceID, At: now})
	return nil
}
