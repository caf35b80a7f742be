package schedule

import (
	"testing"
	"time"
)

func TestWeekdayBit(t *testing.T) {
	cases := []struct {
		day  time.Weekday
		want uint8
	}{
		{time.Monday, 1 << 0},
		{time.Tuesday, 1 << 1},
		{time.Wednesday, 1 << 2},
		{time.Thursday, 1 << 3},
		{time.Friday, 1 << 4},
		{time.Saturday, 1 << 5},
		{time.Sunday, 1 << 6},
	}

	for _, tc := range cases {
		if got := WeekdayBit(tc.day); got != tc.want {
			t.Errorf("WeekdayBit(%s) = %08b, want %08b", tc.day, got, tc.want)
		}
	}
}

func TestParseWeekdays(t *testing.T) {
	mask, ok := ParseWeekdays([]string{"monday", "friday"})
	if !ok {
		t.Fatal("expected monday/friday to parse")
	}
	if mask != WeekdayBit(time.Monday)|WeekdayBit(time.Friday) {
		t.Errorf("unexpected mask %08b", mask)
	}

	if _, ok := ParseWeekdays([]string{"monday", "Mon"}); ok {
		t.Error("abbreviated names should be rejected")
	}
	if _, ok := ParseWeekdays([]string{"SUNDAY"}); ok {
		t.Error("uppercase names should be rejected")
	}

	mask, ok = ParseWeekdays(nil)
	if !ok || mask != 0 {
		t.Errorf("empty input should give zero mask, got %08b ok=%v", mask, ok)
	}
}

func TestOperatesOn(t *testing.T) {
	mask, _ := ParseWeekdays([]string{"tuesday", "saturday"})
	s := Schedule{DaysOfWeek: mask}

	if !s.OperatesOn(time.Tuesday) || !s.OperatesOn(time.Saturday) {
		t.Error("schedule should operate on tuesday and saturday")
	}
	for _, day := range []time.Weekday{time.Sunday, time.Monday, time.Wednesday, time.Thursday, time.Friday} {
		if s.OperatesOn(day) {
			t.Errorf("schedule should not operate on %s", day)
		}
	}
}

func TestDateStatusIsOverride(t *testing.T) {
	overrides := map[DateStatus]bool{
		DateStatusAvailable:    false,
		DateStatusFull:         false,
		DateStatusUnavailable:  true,
		DateStatusCancelled:    true,
		DateStatusDeparted:     true,
		DateStatusWeatherIssue: true,
	}

	for status, want := range overrides {
		if got := status.IsOverride(); got != want {
			t.Errorf("%s.IsOverride() = %v, want %v", status, got, want)
		}
	}
}

func TestDateStatusBookable(t *testing.T) {
	if !DateStatusAvailable.Bookable() {
		t.Error("AVAILABLE should be bookable")
	}
	for _, status := range []DateStatus{DateStatusFull, DateStatusUnavailable, DateStatusCancelled, DateStatusDeparted, DateStatusWeatherIssue} {
		if status.Bookable() {
			t.Errorf("%s should not be bookable", status)
		}
	}
}
