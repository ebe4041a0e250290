package core

import "testing"

func TestCentsFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{1, 100},
		{1.23, 123},
		{0.01, 1},
		{12.345, 1235}, // half-up on the third decimal
		{150, 15000},
		{-2.5, -250},
		{0, 0},
	}
	for _, tc := range cases {
		if got := CentsFromFloat(tc.in); got != tc.out {
			t.Fatalf("CentsFromFloat(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatal("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatal("expected error for negative")
	}
}

func TestPercent1(t *testing.T) {
	cases := []struct {
		num, den int64
		want     float64
	}{
		{1715000, 7180000, 23.9}, // one decimal
		{6000, 6000, 100},
		{0, 6000, 0},
		{100, 0, 0},   // zero denominator guarded
		{100, -50, 0}, // negative denominator guarded
		{7500, 5000, 150}, // above 100 preserved
	}
	for _, tc := range cases {
		if got := Percent1(tc.num, tc.den); got != tc.want {
			t.Fatalf("Percent1(%d, %d) = %v, want %v", tc.num, tc.den, got, tc.want)
		}
	}
}

func TestPercentInt(t *testing.T) {
	if got := PercentInt(170000, 200000); got != 85 {
		t.Fatalf("PercentInt = %d, want 85", got)
	}
	if got := PercentInt(1, 0); got != 0 {
		t.Fatalf("PercentInt with zero denominator = %d, want 0", got)
	}
}
