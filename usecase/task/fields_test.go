package task

import (
	"encoding/json"
	"testing"
	"time"
)

func unmarshalPatch(raw string, patch *Patch) error {
	return json.Unmarshal([]byte(raw), patch)
}

func TestParseDate_AcceptedLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-15T10:30:00Z", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-03-15T10:30:00", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		// datetime.isoformat() output carries microseconds; time.Parse
		// consumes a fractional second even when the layout has none.
		{"2026-03-15T10:30:00.123456", time.Date(2026, 3, 15, 10, 30, 0, 123456000, time.UTC)},
		{"2026-03-15T10:30:00.123456Z", time.Date(2026, 3, 15, 10, 30, 0, 123456000, time.UTC)},
		{"2026-03-15T10:30", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseDate(tc.in, "due_date")
		if err != nil {
			t.Errorf("parseDate(%q): %v", tc.in, err)
			continue
		}
		if got == nil || !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_EmptyClears(t *testing.T) {
	got, err := parseDate("", "due_date")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if got != nil {
		t.Errorf("empty string should clear, got %v", got)
	}
}

func TestParseDate_BadValueNamesField(t *testing.T) {
	_, err := parseDate("tomorrow", "start_date")
	if err == nil || err.Error() != "Invalid start_date format" {
		t.Errorf("err = %v, want Invalid start_date format", err)
	}
}

func TestPatch_DecodeKeepsAbsentFieldsUnset(t *testing.T) {
	var patch Patch
	if err := unmarshalPatch(`{"title": "x"}`, &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !patch.Title.IsSet() {
		t.Error("title should be set")
	}
	if patch.DueDate.IsSet() || patch.Priority.IsSet() || patch.BlockedBy.IsSet() {
		t.Error("absent keys should stay unset")
	}
}

func TestPatch_DecodeCapturesListTypeError(t *testing.T) {
	var patch Patch
	if err := unmarshalPatch(`{"blocked_by": "3"}`, &patch); err != nil {
		t.Fatalf("decode should not fail outright: %v", err)
	}
	if !patch.BlockedBy.IsSet() {
		t.Error("blocked_by should be set")
	}
	if patch.BlockedBy.Err() == nil {
		t.Error("blocked_by should record a decode error")
	}
}
