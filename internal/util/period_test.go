package util

import (
	"testing"
	"time"
)

func TestClampedDate_RegularMonth(t *testing.T) {
	date := ClampedDate(2026, time.March, 15)
	if date.Day() != 15 || date.Month() != time.March {
		t.Errorf("Expected March 15, got %s", date.Format("2006-01-02"))
	}
}

func TestClampedDate_ClampsToShortMonth(t *testing.T) {
	date := ClampedDate(2026, time.February, 31)
	if date.Day() != 28 {
		t.Errorf("Expected Feb 28, got %s", date.Format("2006-01-02"))
	}

	leap := ClampedDate(2028, time.February, 31)
	if leap.Day() != 29 {
		t.Errorf("Expected Feb 29 in a leap year, got %s", leap.Format("2006-01-02"))
	}
}

func TestPeriodBounds_CalendarMonth(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	from, to := PeriodBounds(now, 1)

	if !from.Equal(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period start Aug 1, got %s", from.Format("2006-01-02"))
	}
	if !to.Equal(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period end Sep 1, got %s", to.Format("2006-01-02"))
	}
}

func TestPeriodBounds_AnchoredMidMonth(t *testing.T) {
	// Before the anchor day the period is the one that started last month
	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	from, to := PeriodBounds(now, 15)

	if !from.Equal(time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period start Jul 15, got %s", from.Format("2006-01-02"))
	}
	if !to.Equal(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period end Aug 15, got %s", to.Format("2006-01-02"))
	}

	// On and after the anchor day the period is the current one
	now = time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	from, _ = PeriodBounds(now, 15)
	if !from.Equal(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period start Aug 15, got %s", from.Format("2006-01-02"))
	}
}

func TestPeriodBounds_YearWrap(t *testing.T) {
	now := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	from, to := PeriodBounds(now, 15)

	if !from.Equal(time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period start Dec 15 2025, got %s", from.Format("2006-01-02"))
	}
	if !to.Equal(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected period end Jan 15 2026, got %s", to.Format("2006-01-02"))
	}
}

func TestPeriodBounds_InvalidStartDayFallsBack(t *testing.T) {
	now := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	from, _ := PeriodBounds(now, 31)

	if from.Day() != 1 {
		t.Errorf("Expected fallback to day 1, got day %d", from.Day())
	}
}

func TestPeriodBounds_NonUTCNearMonthBoundary(t *testing.T) {
	// March 1st 05:00 in UTC+10 is still February 28th 19:00 UTC
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2026, time.March, 1, 5, 0, 0, 0, loc)

	from, to := PeriodBounds(now, 1)

	if from.Month() != time.February {
		t.Fatalf("Expected the February period, got from %s", from.Format("2006-01-02"))
	}
	utcNow := now.UTC()
	if utcNow.Before(from) || !utcNow.Before(to) {
		t.Errorf("Expected %s inside [%s, %s)", utcNow, from, to)
	}
}

func TestPeriodKey_Stable(t *testing.T) {
	from := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	if PeriodKey(from) != "2026-08-15" {
		t.Errorf("Unexpected period key %s", PeriodKey(from))
	}
}
