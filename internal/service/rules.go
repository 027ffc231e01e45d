package service

import "time"

// Overlaps reports whether two half-open time ranges [aStart,aEnd) and
// [bStart,bEnd) on the same date intersect. Times are "HH:MM" strings, which
// compare correctly lexicographically. Exact touching endpoints do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// EarliestAssignableDate returns the first calendar date assignments may
// target: the day after tomorrow, relative to now. Schedules occurring today
// or tomorrow are off limits so assigned people have at least one full day of
// notice.
func EarliestAssignableDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+2, 0, 0, 0, 0, now.Location())
}

// ViolatesLeadTime reports whether scheduleDate falls before the earliest
// assignable date.
func ViolatesLeadTime(now, scheduleDate time.Time) bool {
	return scheduleDate.Before(EarliestAssignableDate(now))
}

// InPast reports whether the schedule's end has already passed. date carries
// the calendar day; endTime is "HH:MM".
func InPast(now, date time.Time, endTime string) bool {
	y, m, d := date.Date()
	dayEnd := time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	if t, err := time.Parse("15:04", endTime); err == nil {
		dayEnd = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location())
	}
	return dayEnd.Before(now)
}
