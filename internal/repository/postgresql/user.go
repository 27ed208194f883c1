package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/database"
)

type UserRepository struct {
	db database.Querier
}

func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// scheduleJSON is the on-disk shape of the users.schedule jsonb column.
type scheduleJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r *UserRepository) Get(ctx context.Context, uid string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT uid, schedule, timezone, first_name, last_name, department, position, password_hash, is_admin
		FROM users WHERE uid = $1`, uid)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	var scheduleRaw []byte
	if u.Schedule != nil {
		var err error
		scheduleRaw, err = json.Marshal(scheduleJSON{Start: u.Schedule.Start, End: u.Schedule.End})
		if err != nil {
			return err
		}
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (uid, schedule, timezone, first_name, last_name, department, position, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.UID, scheduleRaw, u.Timezone, u.FirstName, u.LastName, u.Department, u.Position, u.PasswordHash, u.IsAdmin)
	return err
}

func (r *UserRepository) Update(ctx context.Context, uid string, patch user.Update) error {
	var sets []string
	var args []interface{}
	argIdx := 1

	if patch.Schedule != nil {
		raw, err := json.Marshal(scheduleJSON{Start: patch.Schedule.Start, End: patch.Schedule.End})
		if err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("schedule = $%d", argIdx))
		args = append(args, raw)
		argIdx++
	}
	if patch.Timezone != nil {
		sets = append(sets, fmt.Sprintf("timezone = $%d", argIdx))
		args = append(args, *patch.Timezone)
		argIdx++
	}
	if patch.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", argIdx))
		args = append(args, *patch.FirstName)
		argIdx++
	}
	if patch.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", argIdx))
		args = append(args, *patch.LastName)
		argIdx++
	}
	if patch.Department != nil {
		sets = append(sets, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *patch.Department)
		argIdx++
	}
	if patch.Position != nil {
		sets = append(sets, fmt.Sprintf("position = $%d", argIdx))
		args = append(args, *patch.Position)
		argIdx++
	}
	if patch.PasswordHash != nil {
		sets = append(sets, fmt.Sprintf("password_hash = $%d", argIdx))
		args = append(args, *patch.PasswordHash)
		argIdx++
	}
	if patch.IsAdmin != nil {
		sets = append(sets, fmt.Sprintf("is_admin = $%d", argIdx))
		args = append(args, *patch.IsAdmin)
		argIdx++
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE uid = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, uid)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *UserRepository) All(ctx context.Context) ([]*user.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT uid, schedule, timezone, first_name, last_name, department, position, password_hash, is_admin
		FROM users ORDER BY uid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var scheduleRaw []byte
	if err := row.Scan(&u.UID, &scheduleRaw, &u.Timezone, &u.FirstName, &u.LastName, &u.Department, &u.Position, &u.PasswordHash, &u.IsAdmin); err != nil {
		return nil, err
	}
	if len(scheduleRaw) > 0 {
		var s scheduleJSON
		if err := json.Unmarshal(scheduleRaw, &s); err != nil {
			return nil, err
		}
		u.Schedule = &user.Schedule{Start: s.Start, End: s.End}
	}
	return &u, nil
}
