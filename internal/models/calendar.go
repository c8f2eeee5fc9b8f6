package models

// CalendarCell is one cell of the 42-cell month grid. Derived data only;
// regenerated on every month or selection change, never persisted.
type CalendarCell struct {
	Day            int  `json:"day"`
	InCurrentMonth bool `json:"inCurrentMonth"`
	IsToday        bool `json:"isToday"`
	IsPast         bool `json:"isPast"`
	IsWeekend      bool `json:"isWeekend"`
	IsSelected     bool `json:"isSelected"`
}

// Selectable reports whether choosing this cell may advance the
// scheduling flow. Leading and trailing filler cells never qualify.
func (c CalendarCell) Selectable() bool {
	return c.InCurrentMonth && !c.IsPast && !c.IsWeekend
}
