package entities

import (
	"testing"
	"time"
)

func TestBillableMinutes(t *testing.T) {
	tests := []struct {
		seconds  int
		expected int
	}{
		{0, 1},
		{10, 1},
		{59, 1},
		{60, 1},
		{61, 1},
		{119, 1},
		{120, 2},
		{125, 2},
		{600, 10},
	}

	for _, tt := range tests {
		if got := BillableMinutes(tt.seconds); got != tt.expected {
			t.Errorf("BillableMinutes(%d): expected %d, got %d", tt.seconds, tt.expected, got)
		}
	}
}

func TestDayOfUsesUTC(t *testing.T) {
	// 23:30 in UTC+10 is 13:30 UTC the same day.
	sydney := time.FixedZone("AEST", 10*3600)
	local := time.Date(2026, 3, 15, 23, 30, 0, 0, sydney)

	if got := DayOf(local); got != "2026-03-15" {
		t.Errorf("Expected day 2026-03-15, got %s", got)
	}

	// 05:00 in UTC+10 is 19:00 UTC the previous day.
	early := time.Date(2026, 3, 15, 5, 0, 0, 0, sydney)
	if got := DayOf(early); got != "2026-03-14" {
		t.Errorf("Expected day 2026-03-14, got %s", got)
	}
}
