package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/database"
)

type SummaryRepository struct {
	db database.Querier
}

func NewSummaryRepository(db database.Querier) *SummaryRepository {
	return &SummaryRepository{db: db}
}

type punchRefJSON struct {
	AttendanceID string `json:"attendanceId"`
	PunchIn      string `json:"punchIn"`
	PunchOut     string `json:"punchOut"`
}

func marshalPunches(punches []attendance.PunchRef) ([]byte, error) {
	out := make([]punchRefJSON, 0, len(punches))
	for _, p := range punches {
		entry := punchRefJSON{AttendanceID: p.AttendanceID, PunchIn: p.PunchIn.UTC().Format("2006-01-02T15:04:05.000Z")}
		if at, ok := p.PunchOut.IsClosed(); ok {
			entry.PunchOut = at.UTC().Format("2006-01-02T15:04:05.000Z")
		} else if p.PunchOut.IsVoided() {
			entry.PunchOut = "VOIDED"
		}
		out = append(out, entry)
	}
	return json.Marshal(out)
}

func unmarshalPunches(raw []byte) ([]attendance.PunchRef, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []punchRefJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	out := make([]attendance.PunchRef, 0, len(entries))
	for _, e := range entries {
		ref := attendance.PunchRef{AttendanceID: e.AttendanceID}
		if pi, err := parseISO(e.PunchIn); err == nil {
			ref.PunchIn = pi
		}
		switch e.PunchOut {
		case "":
			ref.PunchOut = attendance.Open()
		case "VOIDED":
			ref.PunchOut = attendance.Voided()
		default:
			po, err := parseISO(e.PunchOut)
			if err != nil {
				return nil, err
			}
			ref.PunchOut = attendance.Closed(po)
		}
		out = append(out, ref)
	}
	return out, nil
}

func (r *SummaryRepository) Get(ctx context.Context, id string) (*summary.DailySummary, error) {
	row := r.db.QueryRow(ctx, selectSummaryColumns+` WHERE id = $1`, id)

	s, err := scanSummary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SummaryRepository) Set(ctx context.Context, s *summary.DailySummary) error {
	punchesRaw, err := marshalPunches(s.Punches)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO daily_summaries (id, uid, work_date, regular_hours, overtime_hours, night_diff_hours, total_worked_hours, late_minutes, undertime_minutes, punches, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			regular_hours = EXCLUDED.regular_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			night_diff_hours = EXCLUDED.night_diff_hours,
			total_worked_hours = EXCLUDED.total_worked_hours,
			late_minutes = EXCLUDED.late_minutes,
			undertime_minutes = EXCLUDED.undertime_minutes,
			punches = EXCLUDED.punches,
			updated_at = EXCLUDED.updated_at`,
		s.ID, s.UID, s.WorkDate, s.RegularHours, s.OvertimeHours, s.NightDiffHours, s.TotalWorkedHours, s.LateMinutes, s.UndertimeMinutes, punchesRaw, s.UpdatedAt)
	return err
}

func (r *SummaryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM daily_summaries WHERE id = $1`, id)
	return err
}

func (r *SummaryRepository) QueryByWorkDate(ctx context.Context, workDate string) ([]*summary.DailySummary, error) {
	rows, err := r.db.Query(ctx, selectSummaryColumns+` WHERE work_date = $1 ORDER BY uid`, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (r *SummaryRepository) QueryByUIDAndWorkDateRange(ctx context.Context, uid, start, end string) ([]*summary.DailySummary, error) {
	rows, err := r.db.Query(ctx, selectSummaryColumns+` WHERE uid = $1 AND work_date BETWEEN $2 AND $3 ORDER BY work_date`, uid, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

const selectSummaryColumns = `
	SELECT id, uid, work_date, regular_hours, overtime_hours, night_diff_hours, total_worked_hours, late_minutes, undertime_minutes, punches, updated_at
	FROM daily_summaries`

func scanSummary(row rowScanner) (*summary.DailySummary, error) {
	var s summary.DailySummary
	var punchesRaw []byte

	if err := row.Scan(&s.ID, &s.UID, &s.WorkDate, &s.RegularHours, &s.OvertimeHours, &s.NightDiffHours, &s.TotalWorkedHours, &s.LateMinutes, &s.UndertimeMinutes, &punchesRaw, &s.UpdatedAt); err != nil {
		return nil, err
	}

	punches, err := unmarshalPunches(punchesRaw)
	if err != nil {
		return nil, err
	}
	s.Punches = punches
	return &s, nil
}

func scanSummaries(rows pgx.Rows) ([]*summary.DailySummary, error) {
	var out []*summary.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func parseISO(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000Z", s)
}
