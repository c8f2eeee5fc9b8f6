// Package calendar builds the Sunday-first month grid the presentation
// layer renders: always 42 cells (6 rows of 7), leading and trailing
// filler from the adjacent months.
package calendar

import (
	"time"

	"servaura/internal/models"
)

// GridSize is the fixed number of cells in a month grid.
const GridSize = 42

// BuildGrid returns the 42-cell grid for (year, month). selected is the
// currently chosen date in YYYY-MM-DD form, empty for none; today
// anchors the IsToday/IsPast flags at calendar-day granularity.
//
// Leading cells belong to the previous month and are always marked past
// so they can never be selected, whatever their actual date. Trailing
// next-month filler carries no flags at all.
func BuildGrid(year int, month time.Month, selected string, today time.Time) []models.CalendarCell {
	cells := make([]models.CalendarCell, 0, GridSize)

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	daysInPrevMonth := first.AddDate(0, 0, -1).Day()
	leading := int(first.Weekday()) // Sunday-first: Weekday() is already 0-6

	for i := 0; i < leading; i++ {
		cells = append(cells, models.CalendarCell{
			Day:            daysInPrevMonth - leading + i + 1,
			InCurrentMonth: false,
			IsPast:         true,
		})
	}

	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		wd := date.Weekday()
		cells = append(cells, models.CalendarCell{
			Day:            day,
			InCurrentMonth: true,
			IsToday:        date.Equal(todayStart),
			IsPast:         date.Before(todayStart),
			IsWeekend:      wd == time.Saturday || wd == time.Sunday,
			IsSelected:     selected != "" && date.Format(models.DateLayout) == selected,
		})
	}

	for day := 1; len(cells) < GridSize; day++ {
		cells = append(cells, models.CalendarCell{Day: day})
	}

	return cells
}

// NextMonth advances (year, month) by one month, normalizing the
// December to January rollover.
func NextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// PrevMonth steps (year, month) back one month, normalizing the January
// to December rollover.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// DateOf returns the YYYY-MM-DD form of the given cell day.
func DateOf(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
}
