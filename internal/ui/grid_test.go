package ui

import (
	"testing"
	"time"
)

func TestMonthNavigation(t *testing.T) {
	year, month := prevMonth(2026, time.January)
	if year != 2025 || month != time.December {
		t.Fatalf("prevMonth(2026, Jan) = %d %s", year, month)
	}
	year, month = nextMonth(2025, time.December)
	if year != 2026 || month != time.January {
		t.Fatalf("nextMonth(2025, Dec) = %d %s", year, month)
	}
	year, month = nextMonth(2026, time.March)
	if year != 2026 || month != time.April {
		t.Fatalf("nextMonth(2026, Mar) = %d %s", year, month)
	}
}

func TestPad(t *testing.T) {
	if got := pad("D", 4); got != "D   " {
		t.Errorf("pad(D, 4) = %q", got)
	}
	if got := pad("P 10-22", 4); got != "P 1 " {
		t.Errorf("pad truncation = %q", got)
	}
	if got := pad("żółć", 6); got != "żółć  " {
		t.Errorf("pad with multibyte runes = %q", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	m := Model{year: 2026, month: time.February}
	if got := m.daysInMonth(); got != 28 {
		t.Errorf("days in Feb 2026 = %d, want 28", got)
	}
	m = Model{year: 2024, month: time.February}
	if got := m.daysInMonth(); got != 29 {
		t.Errorf("days in Feb 2024 = %d, want 29", got)
	}
	m = Model{year: 2026, month: time.August}
	if got := m.dateFor(5); got != "2026-08-05" {
		t.Errorf("dateFor(5) = %q", got)
	}
}
