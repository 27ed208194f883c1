package metrics

import (
	"testing"
	"time"
)

var standardShift = Schedule{Start: "09:00", End: "18:00"}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestCompute_ExactDay(t *testing.T) {
	pi := mustParse(t, "2024-01-15T01:00:00Z")
	po := mustParse(t, "2024-01-15T10:00:00Z")

	m := Compute(pi, po, standardShift)

	if m.WorkDate != "2024-01-15" {
		t.Errorf("WorkDate = %q, want 2024-01-15", m.WorkDate)
	}
	if m.RegularHours != 9 || m.OvertimeHours != 0 || m.NightDiffHours != 0 {
		t.Errorf("got regular=%v ot=%v nd=%v, want 9/0/0", m.RegularHours, m.OvertimeHours, m.NightDiffHours)
	}
	if m.LateMinutes != 0 || m.UndertimeMinutes != 0 {
		t.Errorf("got late=%v under=%v, want 0/0", m.LateMinutes, m.UndertimeMinutes)
	}
	if m.TotalWorkedHours != 9 {
		t.Errorf("TotalWorkedHours = %v, want 9", m.TotalWorkedHours)
	}
}

func TestCompute_ThirtyMinutesLate(t *testing.T) {
	pi := mustParse(t, "2024-01-15T01:30:00Z")
	po := mustParse(t, "2024-01-15T10:00:00Z")

	m := Compute(pi, po, standardShift)

	if m.RegularHours != 8.5 {
		t.Errorf("RegularHours = %v, want 8.5", m.RegularHours)
	}
	if m.LateMinutes != 30 {
		t.Errorf("LateMinutes = %v, want 30", m.LateMinutes)
	}
	if m.TotalWorkedHours != 8.5 {
		t.Errorf("TotalWorkedHours = %v, want 8.5", m.TotalWorkedHours)
	}
}

func TestCompute_EarlyArrivalAndOvertime(t *testing.T) {
	pi := mustParse(t, "2024-01-15T00:47:00Z")
	po := mustParse(t, "2024-01-15T12:00:00Z")

	m := Compute(pi, po, standardShift)

	if m.RegularHours != 9 {
		t.Errorf("RegularHours = %v, want 9", m.RegularHours)
	}
	if m.OvertimeHours != 2 {
		t.Errorf("OvertimeHours = %v, want 2", m.OvertimeHours)
	}
	if m.TotalWorkedHours != 11 {
		t.Errorf("TotalWorkedHours = %v, want 11", m.TotalWorkedHours)
	}
	if m.LateMinutes != 0 {
		t.Errorf("LateMinutes = %v, want 0 (early arrival is never credited)", m.LateMinutes)
	}
}

func TestCompute_Graveyard(t *testing.T) {
	pi := mustParse(t, "2024-01-14T18:00:00Z")
	po := mustParse(t, "2024-01-14T22:00:00Z")

	m := Compute(pi, po, standardShift)

	if m.WorkDate != "2024-01-15" {
		t.Errorf("WorkDate = %q, want 2024-01-15", m.WorkDate)
	}
	if m.NightDiffHours != 4 {
		t.Errorf("NightDiffHours = %v, want 4", m.NightDiffHours)
	}
}

func TestCompute_MultiDayCap(t *testing.T) {
	pi := mustParse(t, "2024-01-14T23:00:00Z")
	po := mustParse(t, "2024-01-17T17:00:00Z")

	m := Compute(pi, po, standardShift)

	if m.WorkDate != "2024-01-15" {
		t.Errorf("WorkDate = %q, want 2024-01-15", m.WorkDate)
	}
	if m.RegularHours != 9 {
		t.Errorf("RegularHours = %v, want 9", m.RegularHours)
	}
	if m.OvertimeHours != 6 {
		t.Errorf("OvertimeHours = %v, want 6", m.OvertimeHours)
	}
	if m.NightDiffHours != 2 {
		t.Errorf("NightDiffHours = %v, want 2", m.NightDiffHours)
	}
	if m.TotalWorkedHours != 15 {
		t.Errorf("TotalWorkedHours = %v, want 15", m.TotalWorkedHours)
	}
}

func TestCompute_SumIdentity(t *testing.T) {
	cases := []struct {
		pi, po string
	}{
		{"2024-01-15T01:00:00Z", "2024-01-15T10:00:00Z"},
		{"2024-01-15T01:30:00Z", "2024-01-15T10:00:00Z"},
		{"2024-01-15T00:47:00Z", "2024-01-15T12:00:00Z"},
		{"2024-01-14T23:00:00Z", "2024-01-17T17:00:00Z"},
	}
	for _, c := range cases {
		pi := mustParse(t, c.pi)
		po := mustParse(t, c.po)
		m := Compute(pi, po, standardShift)
		want := m.RegularHours + m.OvertimeHours
		if m.TotalWorkedHours != want {
			t.Errorf("Compute(%s, %s): TotalWorkedHours = %v, want regular+overtime = %v", c.pi, c.po, m.TotalWorkedHours, want)
		}
	}
}

func TestCompute_OutOfOrderPunchesAreZero(t *testing.T) {
	pi := mustParse(t, "2024-01-15T10:00:00Z")
	po := mustParse(t, "2024-01-15T01:00:00Z")

	m := Compute(pi, po, standardShift)

	if m.RegularHours != 0 || m.OvertimeHours != 0 || m.NightDiffHours != 0 || m.LateMinutes != 0 || m.UndertimeMinutes != 0 {
		t.Errorf("out-of-order punch produced nonzero metrics: %+v", m)
	}
}

func TestCompute_UndertimeOnEarlyDeparture(t *testing.T) {
	pi := mustParse(t, "2024-01-15T01:00:00Z")
	po := mustParse(t, "2024-01-15T08:00:00Z") // 16:00 local, 2h before schedEnd

	m := Compute(pi, po, standardShift)

	if m.UndertimeMinutes != 120 {
		t.Errorf("UndertimeMinutes = %v, want 120", m.UndertimeMinutes)
	}
	if m.OvertimeHours != 0 {
		t.Errorf("OvertimeHours = %v, want 0", m.OvertimeHours)
	}
}
