// Package summary models the per-(uid, workDate) daily rollup the
// aggregator (C5) upserts or rebuilds and the reporting layer (C7) reads.
package summary

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
)

// ID returns the deterministic document id for a (uid, workDate) pair.
func ID(uid, workDate string) string {
	return fmt.Sprintf("%s_%s", uid, workDate)
}

// DailySummary is one rollup. Its existence is gated on having at least
// one completed, non-voided attendance record for the day (I5).
type DailySummary struct {
	ID               string                `json:"id"`
	UID              string                `json:"uid"`
	WorkDate         string                `json:"workDate"`
	RegularHours     float64               `json:"regularHours"`
	OvertimeHours    float64               `json:"overtimeHours"`
	NightDiffHours   float64               `json:"nightDiffHours"`
	TotalWorkedHours float64               `json:"totalWorkedHours"`
	LateMinutes      int                   `json:"lateMinutes"`
	UndertimeMinutes int                   `json:"undertimeMinutes"`
	Punches          []attendance.PunchRef `json:"punches"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}
