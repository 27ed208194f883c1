package attendance

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPunchOutState_JSONRoundTrip(t *testing.T) {
	closedAt := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		state PunchOutState
		want  string
	}{
		{"open", Open(), "null"},
		{"voided", Voided(), `"VOIDED"`},
		{"closed", Closed(closedAt), `"2026-01-15T18:00:00Z"`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, err := json.Marshal(c.state)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(raw) != c.want {
				t.Fatalf("got %s, want %s", raw, c.want)
			}

			var decoded PunchOutState
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if decoded.IsOpen() != c.state.IsOpen() || decoded.IsVoided() != c.state.IsVoided() {
				t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, c.state)
			}
			if at, ok := c.state.IsClosed(); ok {
				gotAt, gotOk := decoded.IsClosed()
				if !gotOk || !gotAt.Equal(at) {
					t.Fatalf("closed instant mismatch: got %v, want %v", gotAt, at)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	wrapped := Internal("boom", errSentinel)
	if wrapped.Unwrap() != errSentinel {
		t.Fatalf("Unwrap did not return the wrapped error")
	}
	if wrapped.Kind != KindInternal {
		t.Fatalf("got kind %s, want %s", wrapped.Kind, KindInternal)
	}
}

var errSentinel = &testErr{}

type testErr struct{}

func (*testErr) Error() string { return "sentinel" }
