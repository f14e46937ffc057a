// Package calendar provides Spanish month names and date helpers used by plans and reports.
package calendar

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the title-cased Spanish name of month m (1-12), or "" when out of range.
func MonthName(m int) string {
	if !ValidMonth(m) {
		return ""
	}
	return cases.Title(language.Spanish).String(monthNames[m-1])
}

// ValidMonth reports whether m is in 1..12.
func ValidMonth(m int) bool {
	return m >= 1 && m <= 12
}

// DaysSinceYearStart returns the calendar days between Jan 1 of t's year and t,
// counted in t's location so DST shifts do not change the result.
func DaysSinceYearStart(t time.Time) int {
	return t.YearDay() - 1
}
