package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		`"2025-08-01T12:00:00Z"`:      want,
		`"2025-08-01T14:00:00+02:00"`: want,
		`"2025-08-01T12:00:00"`:       want,
		`"2025-08-01 12:00:00"`:       want,
		`1754049600`:                  want,
		`null`:                        {},
		``:                            {},
		`""`:                          {},
	}
	for in, exp := range cases {
		got, err := ParseTimestamp(json.RawMessage(in))
		if err != nil {
			t.Fatalf("ParseTimestamp(%s): %v", in, err)
		}
		if !exp.Equal(got) {
			t.Errorf("ParseTimestamp(%s) = %v, want %v", in, got, exp)
		}
	}

	for _, bad := range []string{`true`, `"yesterday"`, `{"a":1}`, `1e300`, `-1e300`, `-5`, `253402300800`, `NaN`, `Infinity`} {
		if _, err := ParseTimestamp(json.RawMessage(bad)); !errors.Is(err, ErrBadTimestamp) {
			t.Errorf("ParseTimestamp(%s): want ErrBadTimestamp, got %v", bad, err)
		}
	}
}

func TestStatusRecord_WithGetAndStamps(t *testing.T) {
	var r StatusRecord
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	r2 := r.With(FieldPhone, true).Stamped(FieldPhone, ts)
	if r.Phone || !r.ChangedAt(FieldPhone).IsZero() {
		t.Fatalf("With/Stamped must not mutate the receiver")
	}
	if !r2.Get(FieldPhone) || r2.Get(FieldSleep) || r2.Get(FieldAway) {
		t.Fatalf("unexpected values: %+v", r2)
	}
	if !r2.ChangedAt(FieldPhone).Equal(ts) {
		t.Fatalf("stamp not recorded")
	}
	if r2.With("coffee", true) != r2 || !r2.ChangedAt("coffee").IsZero() {
		t.Fatalf("unknown field must be ignored")
	}
	if !r2.SameValues(StatusRecord{Phone: true}) {
		t.Fatalf("SameValues ignores stamps")
	}
}

func TestConnectionState_String(t *testing.T) {
	cases := map[ConnectionState]string{
		Disconnected:    "disconnected",
		Connected:       "connected",
		ConnectionError: "error",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
		b, _ := json.Marshal(s)
		if string(b) != `"`+want+`"` {
			t.Errorf("json of %d = %s", s, b)
		}
	}
}

func TestStatusRecord_JSONOmitsZeroTimes(t *testing.T) {
	b, err := json.Marshal(StatusRecord{Phone: true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(b), `{"sleep":false,"phone":true,"away":false}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}

	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b, _ = json.Marshal(StatusRecord{LastChangedAt: ts})
	if !strings.Contains(string(b), `"last_changed_at":"2026-03-02T09:00:00Z"`) || strings.Contains(string(b), "synced_at") {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestParseTimestamp_UpperBound(t *testing.T) {
	got, err := ParseTimestamp(json.RawMessage(`253402300799`))
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if got.Year() != 9999 {
		t.Fatalf("year = %d", got.Year())
	}
}

func TestTransitionFor(t *testing.T) {
	if TransitionFor(true) != TransitionStart || TransitionFor(false) != TransitionEnd {
		t.Fatalf("unexpected transition mapping")
	}
}
