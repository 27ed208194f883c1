package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
)

// Query selects a subset of attendance records. Zero-value fields are
// unconstrained except Limit, where zero means unlimited.
type Query struct {
	UID           string
	OnlyOpen      bool
	PunchInAfter  time.Time
	PunchInBefore time.Time
	Limit         int
}

// Update is a partial-document patch: nil fields are left untouched by
// the store. Mirrors the abstract port's "update(id, patch)" merge
// semantics over a Postgres dynamic SET clause.
type Update struct {
	PunchIn     *time.Time
	PunchOut    *PunchOutState
	Metrics     *metrics.Metrics
	Voided      *bool
	VoidedAt    *time.Time
	VoidReason  *string
	AdminEdited *bool
	UpdatedAt   time.Time
}

// Repository is the attendance slice of the persistence port (C3):
// document-level get/create/update/delete/query over one logical
// collection. It exposes no transactions; callers accept read-modify-write
// consistency.
type Repository interface {
	Create(ctx context.Context, record *AttendanceRecord) (string, error)
	Get(ctx context.Context, id string) (*AttendanceRecord, error)
	Update(ctx context.Context, id string, patch Update) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, q Query) ([]*AttendanceRecord, error)
}
