package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/database"
)

type AttendanceRepository struct {
	db database.Querier
}

func NewAttendanceRepository(db database.Querier) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, record *attendance.AttendanceRecord) (string, error) {
	id := uuid.NewString()

	var punchOutAt interface{}
	voided := false
	if at, ok := record.PunchOut.IsClosed(); ok {
		punchOutAt = at
	} else if record.PunchOut.IsVoided() {
		voided = true
	}

	metricsRaw, err := marshalMetrics(record.Metrics)
	if err != nil {
		return "", err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO attendance_records (id, uid, punch_in, punch_out, voided, voided_at, void_reason, metrics, admin_edited, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, record.UID, record.PunchIn, punchOutAt, voided, record.VoidedAt, record.VoidReason, metricsRaw, record.AdminEdited, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AttendanceRepository) Get(ctx context.Context, id string) (*attendance.AttendanceRecord, error) {
	row := r.db.QueryRow(ctx, selectAttendanceColumns+` WHERE id = $1`, id)

	rec, err := scanAttendanceRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, id string, patch attendance.Update) error {
	var sets []string
	var args []interface{}
	argIdx := 1

	if patch.PunchIn != nil {
		sets = append(sets, fmt.Sprintf("punch_in = $%d", argIdx))
		args = append(args, *patch.PunchIn)
		argIdx++
	}
	if patch.PunchOut != nil {
		if at, ok := patch.PunchOut.IsClosed(); ok {
			sets = append(sets, fmt.Sprintf("punch_out = $%d, voided = false", argIdx))
			args = append(args, at)
			argIdx++
		} else if patch.PunchOut.IsVoided() {
			sets = append(sets, "punch_out = NULL, voided = true")
		} else {
			sets = append(sets, "punch_out = NULL, voided = false")
		}
	}
	if patch.Metrics != nil {
		raw, err := marshalMetrics(patch.Metrics)
		if err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("metrics = $%d", argIdx))
		args = append(args, raw)
		argIdx++
	}
	if patch.Voided != nil {
		sets = append(sets, fmt.Sprintf("voided = $%d", argIdx))
		args = append(args, *patch.Voided)
		argIdx++
	}
	if patch.VoidedAt != nil {
		sets = append(sets, fmt.Sprintf("voided_at = $%d", argIdx))
		args = append(args, *patch.VoidedAt)
		argIdx++
	}
	if patch.VoidReason != nil {
		sets = append(sets, fmt.Sprintf("void_reason = $%d", argIdx))
		args = append(args, *patch.VoidReason)
		argIdx++
	}
	if patch.AdminEdited != nil {
		sets = append(sets, fmt.Sprintf("admin_edited = $%d", argIdx))
		args = append(args, *patch.AdminEdited)
		argIdx++
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, patch.UpdatedAt)
	argIdx++

	query := fmt.Sprintf("UPDATE attendance_records SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	return err
}

func (r *AttendanceRepository) Query(ctx context.Context, q attendance.Query) ([]*attendance.AttendanceRecord, error) {
	where := "1 = 1"
	var args []interface{}
	argIdx := 1

	if q.UID != "" {
		where += fmt.Sprintf(" AND uid = $%d", argIdx)
		args = append(args, q.UID)
		argIdx++
	}
	if q.OnlyOpen {
		where += " AND punch_out IS NULL AND voided = false"
	}
	if !q.PunchInAfter.IsZero() {
		where += fmt.Sprintf(" AND punch_in >= $%d", argIdx)
		args = append(args, q.PunchInAfter)
		argIdx++
	}
	if !q.PunchInBefore.IsZero() {
		where += fmt.Sprintf(" AND punch_in <= $%d", argIdx)
		args = append(args, q.PunchInBefore)
		argIdx++
	}

	query := selectAttendanceColumns + " WHERE " + where + " ORDER BY punch_in DESC"
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, q.Limit)
		argIdx++
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const selectAttendanceColumns = `
	SELECT id, uid, punch_in, punch_out, voided, voided_at, void_reason, metrics, admin_edited, created_at, updated_at
	FROM attendance_records`

func scanAttendanceRecord(row rowScanner) (*attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	var punchOut *time.Time
	var voided bool
	var metricsRaw []byte

	if err := row.Scan(&rec.ID, &rec.UID, &rec.PunchIn, &punchOut, &voided, &rec.VoidedAt, &rec.VoidReason, &metricsRaw, &rec.AdminEdited, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	rec.Voided = voided
	switch {
	case voided:
		rec.PunchOut = attendance.Voided()
	case punchOut != nil:
		rec.PunchOut = attendance.Closed(*punchOut)
	default:
		rec.PunchOut = attendance.Open()
	}

	if len(metricsRaw) > 0 {
		var m metrics.Metrics
		if err := json.Unmarshal(metricsRaw, &m); err != nil {
			return nil, err
		}
		rec.Metrics = &m
	}

	return &rec, nil
}

func marshalMetrics(m *metrics.Metrics) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
