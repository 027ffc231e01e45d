package service

import (
	"testing"
	"time"

	"github.com/opencampus/admission-backend/internal/model"
)

func TestReschedulePayload(t *testing.T) {
	old := &model.Schedule{
		Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "11:00",
		VenueName: "Main Hall",
	}
	updated := &model.Schedule{
		Date:      time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "13:00",
		EndTime:   "15:00",
	}

	payload := reschedulePayload(old, updated, "Lecture Theatre B", "venue renovation")

	want := map[string]string{
		"old_date":       "2026-04-01",
		"new_date":       "2026-04-03",
		"old_start_time": "09:00",
		"new_start_time": "13:00",
		"old_end_time":   "11:00",
		"new_end_time":   "15:00",
		"old_venue":      "Main Hall",
		"new_venue":      "Lecture Theatre B",
		"reason":         "venue renovation",
	}
	for key, value := range want {
		if got := payload[key]; got != value {
			t.Errorf("payload[%q] = %v, want %q", key, got, value)
		}
	}
}
