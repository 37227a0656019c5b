package dates

import (
	"testing"
	"time"
)

func TestDay(t *testing.T) {
	in := time.Date(2024, 3, 15, 14, 30, 45, 999, time.UTC)
	got := Day(in)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Day() = %v, want %v", got, want)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	d, err := Parse("2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if Format(d) != "2024-03-15" {
		t.Fatalf("round trip gave %q", Format(d))
	}
	if _, err := Parse("15/03/2024"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(sat) {
		t.Fatal("Saturday must be weekend")
	}
	if IsWeekend(mon) {
		t.Fatal("Monday must not be weekend")
	}
}
