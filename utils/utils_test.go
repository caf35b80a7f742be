package utils

import (
	"testing"
	"time"
)

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2026, 3, 15, 18, 45, 12, 0, time.UTC)

	got, err := CombineDateTime(date, "08:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CombineDateTime = %v, want %v", got, want)
	}

	if _, err := CombineDateTime(date, "8:30pm"); err == nil {
		t.Error("expected error for non HH:MM clock")
	}
	if _, err := CombineDateTime(date, "25:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}

func TestFloorHoursUntil(t *testing.T) {
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		until time.Time
		want  int
	}{
		{base.Add(59 * time.Minute), 0},
		{base.Add(60 * time.Minute), 1},
		{base.Add(90 * time.Minute), 1},
		{base.Add(3*time.Hour + 59*time.Minute), 3},
		{base, 0},
		{base.Add(-30 * time.Minute), 0},
		{base.Add(-2*time.Hour - 30*time.Minute), -2},
	}

	for _, tc := range cases {
		if got := FloorHoursUntil(base, tc.until); got != tc.want {
			t.Errorf("FloorHoursUntil(base, base%+v) = %d, want %d", tc.until.Sub(base), got, tc.want)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"01712345678", "+8801712345678", "01912345678"}
	for _, phone := range valid {
		if !ValidatePhoneNumber(phone) {
			t.Errorf("%q should be valid", phone)
		}
	}

	invalid := []string{"", "0171234567", "017123456789", "12345678901", "+8802712345678", "abc"}
	for _, phone := range invalid {
		if ValidatePhoneNumber(phone) {
			t.Errorf("%q should be invalid", phone)
		}
	}
}
