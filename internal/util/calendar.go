package util

import "time"

// IsBusinessDay reports whether t falls on a weekday. Exchange holidays are
// not modelled; daily bar data from real providers already excludes them.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDays returns every weekday from start through end inclusive, at
// midnight UTC.
func BusinessDays(start, end time.Time) []time.Time {
	start = midnightUTC(start)
	end = midnightUTC(end)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
