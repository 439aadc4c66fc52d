package attendance

import "time"

// Months lists the register month names in display order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthIndex returns the 0-based index of a month name, or -1.
func MonthIndex(month string) int {
	for i, m := range Months {
		if m == month {
			return i
		}
	}
	return -1
}

// DaysInMonth returns the number of days of the named month in the given
// year, or 0 for an unknown month name.
func DaysInMonth(month string, year int) int {
	idx := MonthIndex(month)
	if idx < 0 {
		return 0
	}
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(idx+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsSunday reports whether the given day of the named month falls on a
// Sunday. Sundays are implicit holidays, computed and never stored.
func IsSunday(day int, month string, year int) bool {
	idx := MonthIndex(month)
	if idx < 0 {
		return false
	}
	date := time.Date(year, time.Month(idx+1), day, 0, 0, 0, 0, time.UTC)
	return date.Weekday() == time.Sunday
}
