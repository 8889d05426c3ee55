package utils

import "testing"

func TestParseCount(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"3", 3},
		{" 12 ", 12},
		{"-2", 0},
		{"abc", 0},
		{"2.5", 0},
	}
	for _, tc := range cases {
		if got := ParseCount(tc.raw); got != tc.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"", 0},
		{"50", 50},
		{"12.75", 12.75},
		{"-10", 0},
		{"free", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.raw); got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(145); got != "145.00" {
		t.Errorf("FormatMoney(145) = %q", got)
	}
	if got := FormatMoney(12.5); got != "12.50" {
		t.Errorf("FormatMoney(12.5) = %q", got)
	}
	if got := FormatAmount(80, "USD"); got != "80.00 USD" {
		t.Errorf("FormatAmount = %q", got)
	}
	if got := FormatAmount(80, ""); got != "80.00" {
		t.Errorf("FormatAmount without symbol = %q", got)
	}
}
