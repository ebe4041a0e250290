package core

// Windows are the date ranges one dashboard computation partitions the
// ledger by: the reference day itself and its full calendar month.
type Windows struct {
	DayStart   Date
	DayEnd     Date
	MonthStart Date
	MonthEnd   Date
}

// ResolveWindows derives the day and month windows for a reference date.
// The month end is found by adding one calendar month to the month start
// and stepping back a day, which handles 28/29/30/31-day months and the
// December to January rollover.
func ResolveWindows(ref Date) Windows {
	monthStart := NewDate(ref.Year(), ref.Month(), 1)
	return Windows{
		DayStart:   ref,
		DayEnd:     ref,
		MonthStart: monthStart,
		MonthEnd:   monthStart.AddDate(0, 1, -1),
	}
}
