package summary

import "context"

// Repository is the dailySummary slice of the persistence port (C3).
// Set replaces the document wholesale; there is no partial-patch method
// because C5 always computes a complete rollup before writing one.
type Repository interface {
	Get(ctx context.Context, id string) (*DailySummary, error)
	Set(ctx context.Context, s *DailySummary) error
	Delete(ctx context.Context, id string) error
	QueryByWorkDate(ctx context.Context, workDate string) ([]*DailySummary, error)
	QueryByUIDAndWorkDateRange(ctx context.Context, uid, start, end string) ([]*DailySummary, error)
}
