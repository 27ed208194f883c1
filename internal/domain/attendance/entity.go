package attendance

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/metrics"
)

// PunchOutState is the tri-valued punchOut field: open (null), voided
// ("VOIDED"), or closed at a specific instant. Its JSON form is exactly
// one of those three shapes. In Postgres it is stored as the nullable
// punch_out timestamp plus the separate voided flag.
type PunchOutState struct {
	open   bool
	voided bool
	at     time.Time
}

var voidedJSON = []byte(`"VOIDED"`)


// Open reports an unfinished punch.
func Open() PunchOutState {
	return PunchOutState{open: true}
}

// Voided reports a cancelled punch.
func Voided() PunchOutState {
	return PunchOutState{voided: true}
}

// Closed reports a completed punch at the given instant.
func Closed(at time.Time) PunchOutState {
	return PunchOutState{at: at}
}

func (s PunchOutState) IsOpen() bool {
	return s.open
}

func (s PunchOutState) IsVoided() bool {
	return s.voided
}

// IsClosed reports whether the punch completed normally, and if so its
// instant.
func (s PunchOutState) IsClosed() (time.Time, bool) {
	if s.open || s.voided {
		return time.Time{}, false
	}
	return s.at, true
}

func (s PunchOutState) MarshalJSON() ([]byte, error) {
	switch {
	case s.open:
		return []byte("null"), nil
	case s.voided:
		return voidedJSON, nil
	default:
		return json.Marshal(s.at)
	}
}

func (s *PunchOutState) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = Open()
		return nil
	}
	if bytes.Equal(data, voidedJSON) {
		*s = Voided()
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*s = Closed(t)
	return nil
}

// AttendanceRecord is one punch pair.
type AttendanceRecord struct {
	ID          string           `json:"id"`
	UID         string           `json:"uid"`
	PunchIn     time.Time        `json:"punchIn"`
	PunchOut    PunchOutState    `json:"punchOut"`
	Metrics     *metrics.Metrics `json:"metrics,omitempty"`
	Voided      bool             `json:"voided"`
	VoidedAt    *time.Time       `json:"voidedAt,omitempty"`
	VoidReason  string           `json:"voidReason,omitempty"`
	AdminEdited bool             `json:"adminEdited"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PunchRef is the per-punch line item carried inside a DailySummary.
type PunchRef struct {
	AttendanceID string        `json:"attendanceId"`
	PunchIn      time.Time     `json:"punchIn"`
	PunchOut     PunchOutState `json:"punchOut"`
}
