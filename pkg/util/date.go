package util

import "time"

// DateLayout is the wire format upstream market-data APIs expect.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange returns [now-days, now] formatted as YYYY-MM-DD.
func DateRange(now time.Time, days int) (string, string) {
	return FormatDate(now.AddDate(0, 0, -days)), FormatDate(now)
}
