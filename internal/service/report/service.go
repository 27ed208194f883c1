// Package report implements Reporting (C7): the read-side aggregations
// administrators and employees consume — per-user punch history and
// weekly rollups, and all-employee daily and weekly reports.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

type Service struct {
	records   attendance.Repository
	summaries summary.Repository
	users     user.Repository
}

func New(records attendance.Repository, summaries summary.Repository, users user.Repository) *Service {
	return &Service{records: records, summaries: summaries, users: users}
}

// GetEmployeePunches returns uid's attendance in [startDate, endDate],
// sorted by punchIn descending.
func (s *Service) GetEmployeePunches(ctx context.Context, uid, startDate, endDate string) ([]*attendance.AttendanceRecord, error) {
	start, err := time.Parse(time.RFC3339Nano, startDate+"T00:00:00.000Z")
	if err != nil {
		return nil, attendance.BadRequest("invalid startDate")
	}
	end, err := time.Parse(time.RFC3339Nano, endDate+"T23:59:59.999Z")
	if err != nil {
		return nil, attendance.BadRequest("invalid endDate")
	}

	records, err := s.records.Query(ctx, attendance.Query{UID: uid, PunchInAfter: start, PunchInBefore: end})
	if err != nil {
		return nil, attendance.Internal("query attendance", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].PunchIn.After(records[j].PunchIn)
	})
	return records, nil
}

// GetDailySummary is a direct point read by summary id.
func (s *Service) GetDailySummary(ctx context.Context, uid, workDate string) (*summary.DailySummary, error) {
	doc, err := s.summaries.Get(ctx, summary.ID(uid, workDate))
	if err != nil {
		return nil, attendance.Internal("load daily summary", err)
	}
	if doc == nil {
		return nil, attendance.NotFound("no summary for this date")
	}
	return doc, nil
}

// GetWeeklySummary accumulates uid's daily summaries across [startDate,
// endDate] into totals and the ordered list of days.
func (s *Service) GetWeeklySummary(ctx context.Context, uid, startDate, endDate string) (*report.WeeklySummary, error) {
	days, err := s.summaries.QueryByUIDAndWorkDateRange(ctx, uid, startDate, endDate)
	if err != nil {
		return nil, attendance.Internal("query weekly summaries", err)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].WorkDate < days[j].WorkDate })

	return &report.WeeklySummary{Totals: sumTotals(days), Days: days}, nil
}

// GetAllDailyReports loads every summary for workDate and enriches each
// with the owning employee's display attributes.
func (s *Service) GetAllDailyReports(ctx context.Context, workDate string) (*report.DailyReport, error) {
	days, err := s.summaries.QueryByWorkDate(ctx, workDate)
	if err != nil {
		return nil, attendance.Internal("query daily reports", err)
	}

	displays, err := s.displaysFor(ctx, days)
	if err != nil {
		return nil, err
	}

	rows := make([]report.DailyReportRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, report.DailyReportRow{Employee: displays[d.UID], Summary: d})
	}

	return &report.DailyReport{WorkDate: workDate, Count: len(rows), Data: rows}, nil
}

// GetAllWeeklyReports groups every summary in [startDate, endDate] by
// uid, sums into per-employee totals, and sorts each group's days
// ascending.
func (s *Service) GetAllWeeklyReports(ctx context.Context, startDate, endDate string) (*report.WeeklyReport, error) {
	grouped := map[string][]*summary.DailySummary{}
	days, err := s.queryRangeAllUsers(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		grouped[d.UID] = append(grouped[d.UID], d)
	}

	displays, err := s.displaysFor(ctx, days)
	if err != nil {
		return nil, err
	}

	rows := make([]report.WeeklyReportRow, 0, len(grouped))
	for uid, group := range grouped {
		sort.Slice(group, func(i, j int) bool { return group[i].WorkDate < group[j].WorkDate })
		rows = append(rows, report.WeeklyReportRow{
			Employee: displays[uid],
			Totals:   sumTotals(group),
			Days:     group,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Employee.UID < rows[j].Employee.UID })

	return &report.WeeklyReport{StartDate: startDate, EndDate: endDate, Count: len(rows), Data: rows}, nil
}

// queryRangeAllUsers fans the range query out across every known user,
// since the persistence port exposes QueryByUIDAndWorkDateRange per-uid
// rather than a cross-user range query. Each user's query runs on its
// own goroutine, writing into its own slot of a pre-sized slice so the
// fan-out needs no mutex.
func (s *Service) queryRangeAllUsers(ctx context.Context, startDate, endDate string) ([]*summary.DailySummary, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, attendance.Internal("load users", err)
	}

	perUser := make([][]*summary.DailySummary, len(users))
	g, gCtx := errgroup.WithContext(ctx)
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			days, err := s.summaries.QueryByUIDAndWorkDateRange(gCtx, u.UID, startDate, endDate)
			if err != nil {
				return err
			}
			perUser[i] = days
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, attendance.Internal("query weekly summaries", err)
	}

	var out []*summary.DailySummary
	for _, days := range perUser {
		out = append(out, days...)
	}
	return out, nil
}

// displaysFor loads the EmployeeDisplay for every distinct uid among days,
// one goroutine per uid, each writing its own slot of a pre-sized slice.
func (s *Service) displaysFor(ctx context.Context, days []*summary.DailySummary) (map[string]report.EmployeeDisplay, error) {
	seen := map[string]struct{}{}
	var uids []string
	for _, d := range days {
		if _, ok := seen[d.UID]; !ok {
			seen[d.UID] = struct{}{}
			uids = append(uids, d.UID)
		}
	}

	results := make([]report.EmployeeDisplay, len(uids))
	g, gCtx := errgroup.WithContext(ctx)
	for i, uid := range uids {
		i, uid := i, uid
		g.Go(func() error {
			u, err := s.users.Get(gCtx, uid)
			if err != nil {
				return err
			}
			if u == nil {
				results[i] = report.EmployeeDisplay{UID: uid}
				return nil
			}
			results[i] = report.EmployeeDisplay{
				UID:        u.UID,
				FirstName:  u.FirstName,
				LastName:   u.LastName,
				Department: u.Department,
				Position:   u.Position,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, attendance.Internal("load user for report enrichment", err)
	}

	displays := make(map[string]report.EmployeeDisplay, len(uids))
	for i, uid := range uids {
		displays[uid] = results[i]
	}
	return displays, nil
}

func sumTotals(days []*summary.DailySummary) report.WeeklyTotals {
	var t report.WeeklyTotals
	for _, d := range days {
		t.RegularHours = round2(t.RegularHours + d.RegularHours)
		t.OvertimeHours = round2(t.OvertimeHours + d.OvertimeHours)
		t.NightDiffHours = round2(t.NightDiffHours + d.NightDiffHours)
		t.TotalWorkedHours = round2(t.TotalWorkedHours + d.TotalWorkedHours)
		t.LateMinutes += d.LateMinutes
		t.UndertimeMinutes += d.UndertimeMinutes
	}
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
