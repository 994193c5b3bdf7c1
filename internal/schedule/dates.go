package schedule

import "time"

const isoDate = "2006-01-02"

// DateString serializes an instant as an ISO-8601 calendar date (YYYY-MM-DD),
// truncating any time-of-day component. Used for start dates.
func DateString(t time.Time) string {
	return t.Format(isoDate)
}

// DateStringCeil serializes an instant as an ISO-8601 calendar date, rounding
// a fractional-day remainder UP to the next whole day. Used for end dates so a
// half-day task still occupies a full calendar day externally.
func DateStringCeil(t time.Time) string {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.After(midnight) {
		midnight = midnight.AddDate(0, 0, 1)
	}
	return midnight.Format(isoDate)
}

// ParseDate parses an ISO-8601 calendar date in the local meaning used across
// the module (midnight, UTC).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(isoDate, s)
}

// DayOffset returns t's offset from anchor in fractional days.
func DayOffset(anchor, t time.Time) float64 {
	return t.Sub(anchor).Hours() / 24
}

// AddDays returns t shifted by a fractional day count.
func AddDays(t time.Time, d float64) time.Time {
	return t.Add(days(d))
}
