package funnel

import "time"

// TimeSlots returns the fixed hourly appointment slots, 9:00 AM through
// 9:00 PM.
func TimeSlots() []string {
	return []string{
		"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
		"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
		"5:00 PM", "6:00 PM", "7:00 PM", "8:00 PM", "9:00 PM",
	}
}

// scheduleWindowDays is the size of the selectable window: today plus the
// next four calendar days.
const scheduleWindowDays = 5

// AvailableDates returns the selectable dates for the given "today",
// truncated to midnight in today's location.
func AvailableDates(today time.Time) []time.Time {
	day := truncateToDay(today)
	out := make([]time.Time, 0, scheduleWindowDays)
	for i := 0; i < scheduleWindowDays; i++ {
		out = append(out, day.AddDate(0, 0, i))
	}
	return out
}

// dateSelectable reports whether date falls on one of the available days.
// Dates outside the window are displayed in the month grid but not selectable.
// Comparison is by calendar day so mixed locations cannot skew the window.
func dateSelectable(today, date time.Time) bool {
	for i := 0; i < scheduleWindowDays; i++ {
		if sameDay(today.AddDate(0, 0, i), date) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// validSlot reports whether label is one of the fixed time slots.
func validSlot(label string) bool {
	for _, s := range TimeSlots() {
		if label == s {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
