package funnel

import (
	"testing"
	"time"
)

func TestAvailableDatesWindow(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	dates := AvailableDates(today)
	if len(dates) != 5 {
		t.Fatalf("expected 5 dates, got %d", len(dates))
	}
	if !dates[0].Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first date not today's midnight: %v", dates[0])
	}
	if !dates[4].Equal(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last date wrong: %v", dates[4])
	}
}

func TestDateSelectable(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	if !dateSelectable(today, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("today not selectable")
	}
	if !dateSelectable(today, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last window day not selectable")
	}
	if dateSelectable(today, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("yesterday selectable")
	}
	if dateSelectable(today, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day after window selectable")
	}
}

func TestDateSelectableAcrossLocations(t *testing.T) {
	// Comparison is by calendar day, so a date parsed in a different zone
	// still matches as long as the day fields line up.
	chicago := time.FixedZone("CST", -6*3600)
	today := time.Date(2024, 6, 10, 23, 0, 0, 0, chicago)
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	if !dateSelectable(today, date) {
		t.Fatalf("same calendar day in different zones not selectable")
	}
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	if len(slots) != 13 {
		t.Fatalf("expected 13 slots, got %d", len(slots))
	}
	if slots[0] != "9:00 AM" || slots[12] != "9:00 PM" {
		t.Fatalf("slot bounds wrong: %q .. %q", slots[0], slots[12])
	}
	if !validSlot("2:00 PM") {
		t.Fatalf("2:00 PM rejected")
	}
	if validSlot("2:30 PM") {
		t.Fatalf("half-hour slot accepted")
	}
	if validSlot("14:00") {
		t.Fatalf("24h label accepted")
	}
}
