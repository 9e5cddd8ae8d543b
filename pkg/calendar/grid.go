package calendar

import "time"

// WeekdayLabels are the column headers of the month grid, Monday first
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayCell is one cell of the month grid. Identity is positional; cells
// are generated fresh for every focused month and never mutated.
type DayCell struct {
	Day     int  // day-of-month number shown in the cell
	Padding bool // true for leading/trailing days of adjacent months
	Today   bool // true for the one cell matching today's date
}

// BuildMonthGrid computes the 7-wide grid of day cells for the given
// month. Weeks start on Monday: the weekday of day 1 is normalized to a
// Monday-indexed offset, the front is padded with the trailing days of
// the previous month, and the back is padded with the leading days of
// the next month so the total cell count is a multiple of 7.
func BuildMonthGrid(year int, month time.Month, today time.Time) [][]DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	offset := (int(first.Weekday()) + 6) % 7

	prevYear, prevMonth := PreviousMonth(year, month)
	prevDays := DaysInMonth(prevYear, prevMonth)
	monthDays := DaysInMonth(year, month)

	cells := make([]DayCell, 0, offset+monthDays+6)
	for i := 0; i < offset; i++ {
		cells = append(cells, DayCell{Day: prevDays - offset + i + 1, Padding: true})
	}

	for day := 1; day <= monthDays; day++ {
		isToday := day == today.Day() && month == today.Month() && year == today.Year()
		cells = append(cells, DayCell{Day: day, Today: isToday})
	}

	for next := 1; len(cells)%7 != 0; next++ {
		cells = append(cells, DayCell{Day: next, Padding: true})
	}

	weeks := make([][]DayCell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// PreviousMonth steps the (year, month) pair back by one month
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps the (year, month) pair forward by one month
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
