package dates

import (
	"testing"
	"time"
)

func TestParse_AcceptedFormats(t *testing.T) {
	want := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"dotted", "07.03.2026"},
		{"iso", "2026-03-07"},
		{"iso with time", "2026-03-07 14:22:05"},
		{"rfc3339", "2026-03-07T14:22:05Z"},
		{"padded", "  2026-03-07  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.raw, err)
			}
			if !got.Equal(want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.raw, got, want)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "marzec 2026", "07/03/2026", "2026-13-01"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) unexpectedly succeeded", raw)
		}
	}
}

func TestMonthKey_Bounds(t *testing.T) {
	tests := []struct {
		key   MonthKey
		start string
		end   string
		days  int
	}{
		{"2026-01", "2026-01-01", "2026-01-31", 31},
		{"2026-02", "2026-02-01", "2026-02-28", 28},
		{"2024-02", "2024-02-01", "2024-02-29", 29},
		{"2026-04", "2026-04-01", "2026-04-30", 30},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if got := tt.key.Start().Format("2006-01-02"); got != tt.start {
				t.Errorf("Start() = %s, want %s", got, tt.start)
			}
			if got := tt.key.End().Format("2006-01-02"); got != tt.end {
				t.Errorf("End() = %s, want %s", got, tt.end)
			}
			if got := tt.key.Days(); got != tt.days {
				t.Errorf("Days() = %d, want %d", got, tt.days)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	a := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	got := MonthsBetween(a, b)
	want := []MonthKey{"2025-11", "2025-12", "2026-01", "2026-02"}
	if len(got) != len(want) {
		t.Fatalf("MonthsBetween returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if keys := MonthsBetween(b, a); keys != nil {
		t.Errorf("reversed range should be nil, got %v", keys)
	}
}

func TestDaysBetween(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan16 := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)

	if got := DaysBetween(jan1, jan16); got != 15 {
		t.Errorf("DaysBetween = %d, want 15", got)
	}
	if got := DaysBetween(jan16, jan1); got != -15 {
		t.Errorf("reversed DaysBetween = %d, want -15", got)
	}
}
