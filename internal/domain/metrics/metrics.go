// Package metrics implements the attendance metrics engine: a pure
// function that partitions one punch-in/punch-out interval into regular,
// overtime, night-differential, late, and undertime quantities under a
// fixed-offset local timezone. It performs no I/O and depends on nothing
// outside the standard library, so it is trivially unit-testable.
package metrics

import (
	"math"
	"time"
)

// localZone is the fixed UTC+8 offset the engine assumes. The
// organization's configured timezone string is accepted elsewhere in the
// system but never consulted here — see the design notes on DST.
var localZone = time.FixedZone("local", 8*60*60)

const nightWindowStartHour = 22
const nightWindowEndHour = 6

// Schedule is a pair of local HH:MM clock-face times, start < end, on the
// same calendar day.
type Schedule struct {
	Start string
	End   string
}

// Metrics is the output of Compute.
type Metrics struct {
	WorkDate         string  `json:"workDate"`
	RegularHours     float64 `json:"regularHours"`
	OvertimeHours    float64 `json:"overtimeHours"`
	NightDiffHours   float64 `json:"nightDiffHours"`
	TotalWorkedHours float64 `json:"totalWorkedHours"`
	LateMinutes      int     `json:"lateMinutes"`
	UndertimeMinutes int     `json:"undertimeMinutes"`
}

// LocalDate returns the YYYY-MM-DD local calendar date of an instant,
// under the same fixed UTC+8 offset Compute uses to derive workDate.
func LocalDate(t time.Time) string {
	return t.In(localZone).Format("2006-01-02")
}

// Compute maps a punch pair and the schedule in effect that day to a
// Metrics value. It is total: out-of-order punches (punchOut before
// punchIn) yield an all-zero result rather than an error.
func Compute(punchIn, punchOut time.Time, sched Schedule) Metrics {
	local := punchIn.In(localZone)
	y, m, d := local.Date()
	workDate := local.Format("2006-01-02")

	schedStart, okStart := localClockOn(y, m, d, sched.Start)
	schedEnd, okEnd := localClockOn(y, m, d, sched.End)
	if !okStart || !okEnd {
		return Metrics{WorkDate: workDate}
	}

	endOfWorkDay := time.Date(y, m, d+1, 0, 0, 0, 0, localZone).Add(-time.Millisecond)

	po := punchOut
	if po.After(endOfWorkDay) {
		po = endOfWorkDay
	}
	pi := punchIn

	if po.Before(pi) {
		return Metrics{WorkDate: workDate}
	}

	regularMs := overlapMs(pi, po, schedStart, schedEnd)
	lateMs := maxInt64(0, pi.Sub(schedStart).Milliseconds())

	var undertimeMs int64
	if po.Before(schedEnd) {
		undertimeMs = maxInt64(0, schedEnd.Sub(maxTime(po, schedStart)).Milliseconds())
	}

	overtimeMs := maxInt64(0, po.Sub(maxTime(pi, schedEnd)).Milliseconds())
	nightDiffMs := nightDifferentialMs(pi, po, y, m, d)

	return Metrics{
		WorkDate:         workDate,
		RegularHours:     toHours(regularMs),
		OvertimeHours:    toHours(overtimeMs),
		NightDiffHours:   toHours(nightDiffMs),
		TotalWorkedHours: toHours(regularMs + overtimeMs),
		LateMinutes:      toMinutes(lateMs),
		UndertimeMinutes: toMinutes(undertimeMs),
	}
}

// nightDifferentialMs sums the overlap of [pi, po] with every local
// 22:00-06:00 window that intersects the punch, scanning forward from the
// window anchored the evening before the work date so graveyard shifts
// that clock in before 06:00 are captured.
func nightDifferentialMs(pi, po time.Time, y int, m time.Month, d int) int64 {
	var total int64
	windowStart := time.Date(y, m, d-1, nightWindowStartHour, 0, 0, 0, localZone)
	for windowStart.Before(po) {
		windowEnd := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day()+1, nightWindowEndHour, 0, 0, 0, localZone)
		total += overlapMs(pi, po, windowStart, windowEnd)
		windowStart = windowStart.Add(24 * time.Hour)
	}
	return total
}

// localClockOn builds the UTC instant for an "HH:MM" clock-face time on
// the given local calendar date.
func localClockOn(y int, m time.Month, d int, hhmm string) (time.Time, bool) {
	t, err := time.ParseInLocation("15:04", hhmm, localZone)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, localZone), true
}

func overlapMs(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := maxTime(aStart, bStart)
	end := minTime(aEnd, bEnd)
	if end.Before(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func toHours(ms int64) float64 {
	return math.Round(float64(ms)/3_600_000*100) / 100
}

func toMinutes(ms int64) int {
	return int(math.Round(float64(ms) / 60_000))
}
