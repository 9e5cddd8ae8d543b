package calendar

import (
	"testing"
	"time"
)

func TestBuildMonthGrid_Shape(t *testing.T) {
	tcs := []struct {
		year  int
		month time.Month
		days  int
		weeks int
	}{
		{year: 2025, month: time.June, days: 30, weeks: 6},  // June 2025 starts on a Sunday
		{year: 2025, month: time.September, days: 30, weeks: 5},
		{year: 2024, month: time.February, days: 29, weeks: 5}, // leap year
		{year: 2025, month: time.February, days: 28, weeks: 5},
		{year: 2021, month: time.February, days: 28, weeks: 4}, // starts on Monday, exactly 4 weeks
	}

	for _, tc := range tcs {
		grid := BuildMonthGrid(tc.year, tc.month, time.Time{})
		if len(grid) != tc.weeks {
			t.Fatalf("BuildMonthGrid(%d, %v) weeks=%d; want %d", tc.year, tc.month, len(grid), tc.weeks)
		}

		real := 0
		for _, week := range grid {
			if len(week) != 7 {
				t.Fatalf("BuildMonthGrid(%d, %v) week width=%d; want 7", tc.year, tc.month, len(week))
			}
			for _, cell := range week {
				if !cell.Padding {
					real++
				}
			}
		}
		if real != tc.days {
			t.Fatalf("BuildMonthGrid(%d, %v) real days=%d; want %d", tc.year, tc.month, real, tc.days)
		}
	}
}

func TestBuildMonthGrid_MondayStart(t *testing.T) {
	// September 2025 starts on a Monday, so the first cell is day 1.
	grid := BuildMonthGrid(2025, time.September, time.Time{})
	first := grid[0][0]
	if first.Padding || first.Day != 1 {
		t.Fatalf("first cell = %+v; want day 1, no padding", first)
	}

	// June 2025 starts on a Sunday, so six padding cells precede it.
	grid = BuildMonthGrid(2025, time.June, time.Time{})
	for i := 0; i < 6; i++ {
		if !grid[0][i].Padding {
			t.Fatalf("cell %d = %+v; want padding", i, grid[0][i])
		}
	}
	if grid[0][6].Padding || grid[0][6].Day != 1 {
		t.Fatalf("cell 6 = %+v; want day 1", grid[0][6])
	}
	// Leading padding counts down from the previous month's last days.
	if grid[0][0].Day != 26 {
		t.Fatalf("leading padding day = %d; want 26", grid[0][0].Day)
	}
}

func TestBuildMonthGrid_TodayMarking(t *testing.T) {
	today := time.Date(2025, time.June, 14, 10, 30, 0, 0, time.Local)

	grid := BuildMonthGrid(2025, time.June, today)
	marked := 0
	for _, week := range grid {
		for _, cell := range week {
			if cell.Today {
				marked++
				if cell.Padding || cell.Day != 14 {
					t.Fatalf("today cell = %+v; want real day 14", cell)
				}
			}
		}
	}
	if marked != 1 {
		t.Fatalf("today marked on %d cells; want 1", marked)
	}

	// A different focused month never marks today.
	grid = BuildMonthGrid(2025, time.July, today)
	for _, week := range grid {
		for _, cell := range week {
			if cell.Today {
				t.Fatalf("cell %+v marked today in a non-current month", cell)
			}
		}
	}
}

func TestMonthStepping(t *testing.T) {
	year, month := NextMonth(2025, time.December)
	if year != 2026 || month != time.January {
		t.Fatalf("NextMonth(2025, December) = %d, %v; want 2026, January", year, month)
	}
	year, month = PreviousMonth(2026, time.January)
	if year != 2025 || month != time.December {
		t.Fatalf("PreviousMonth(2026, January) = %d, %v; want 2025, December", year, month)
	}
	year, month = NextMonth(2025, time.June)
	if year != 2025 || month != time.July {
		t.Fatalf("NextMonth(2025, June) = %d, %v; want 2025, July", year, month)
	}
}

func TestDaysInMonth(t *testing.T) {
	tcs := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tc := range tcs {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Fatalf("DaysInMonth(%d, %v) = %d; want %d", tc.year, tc.month, got, tc.want)
		}
	}
}
