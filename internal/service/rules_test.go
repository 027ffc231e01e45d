package service

import (
	"strings"
	"testing"
	"time"

	"github.com/opencampus/admission-backend/internal/model"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"identical ranges", "09:00", "11:00", "09:00", "11:00", true},
		{"partial overlap", "09:00", "11:00", "10:00", "12:00", true},
		{"contained range", "09:00", "12:00", "10:00", "11:00", true},
		{"touching endpoints do not overlap", "09:00", "11:00", "11:00", "13:00", false},
		{"touching endpoints reversed", "11:00", "13:00", "09:00", "11:00", false},
		{"disjoint ranges", "08:00", "09:00", "10:00", "11:00", false},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps is not symmetric for %s-%s vs %s-%s",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			}
		})
	}
}

func TestEarliestAssignableDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	got := EarliestAssignableDate(now)
	want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EarliestAssignableDate(%v) = %v, want %v", now, got, want)
	}

	// Month rollover.
	now = time.Date(2026, 3, 31, 1, 0, 0, 0, time.UTC)
	got = EarliestAssignableDate(now)
	want = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EarliestAssignableDate(%v) = %v, want %v", now, got, want)
	}
}

func TestViolatesLeadTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"today", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"tomorrow", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), true},
		{"day after tomorrow", time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), false},
		{"next week", time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ViolatesLeadTime(now, tc.date); got != tc.want {
				t.Errorf("ViolatesLeadTime(now, %v) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestInPast(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		date    time.Time
		endTime string
		want    bool
	}{
		{"yesterday", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "10:00", true},
		{"today ended this morning", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "11:00", true},
		{"today ends this evening", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "18:00", false},
		{"tomorrow", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "09:00", false},
		{"bad end time falls back to end of day", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "oops", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InPast(now, tc.date, tc.endTime); got != tc.want {
				t.Errorf("InPast(now, %v, %q) = %v, want %v", tc.date, tc.endTime, got, tc.want)
			}
		})
	}
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{
		Scope: "venue",
		Conflicts: []model.ConflictDescriptor{
			{
				VenueName: "Main Hall",
				Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
				StartTime: "09:00",
				EndTime:   "11:00",
			},
		},
	}

	msg := err.Error()
	for _, want := range []string{"venue conflict", "2026-04-01", "09:00-11:00", "Main Hall"} {
		if !strings.Contains(msg, want) {
			t.Errorf("conflict message %q missing %q", msg, want)
		}
	}
}
