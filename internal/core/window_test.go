package core

import "testing"

func TestResolveWindows(t *testing.T) {
	cases := []struct {
		name       string
		ref        Date
		monthStart Date
		monthEnd   Date
	}{
		{"mid month", NewDate(2026, 3, 15), NewDate(2026, 3, 1), NewDate(2026, 3, 31)},
		{"thirty day month", NewDate(2026, 4, 1), NewDate(2026, 4, 1), NewDate(2026, 4, 30)},
		{"february", NewDate(2026, 2, 28), NewDate(2026, 2, 1), NewDate(2026, 2, 28)},
		{"leap february", NewDate(2028, 2, 10), NewDate(2028, 2, 1), NewDate(2028, 2, 29)},
		{"december rollover", NewDate(2026, 12, 31), NewDate(2026, 12, 1), NewDate(2026, 12, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ResolveWindows(tc.ref)
			if !w.DayStart.Equal(tc.ref) || !w.DayEnd.Equal(tc.ref) {
				t.Fatalf("day window = [%s, %s], want both %s", w.DayStart, w.DayEnd, tc.ref)
			}
			if !w.MonthStart.Equal(tc.monthStart) {
				t.Fatalf("month start = %s, want %s", w.MonthStart, tc.monthStart)
			}
			if !w.MonthEnd.Equal(tc.monthEnd) {
				t.Fatalf("month end = %s, want %s", w.MonthEnd, tc.monthEnd)
			}
		})
	}
}
