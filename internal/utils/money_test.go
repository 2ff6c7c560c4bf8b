package utils

import "testing"

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{name: "whole dollars", amount: 499.00, want: 49900},
		{name: "dollars and cents", amount: 12.34, want: 1234},
		{name: "sub-cent rounds up", amount: 0.005, want: 1},
		{name: "float representation error", amount: 19.99, want: 1999},
		{name: "repeated tenth", amount: 0.1 + 0.2, want: 30},
		{name: "zero", amount: 0, want: 0},
		{name: "large amount", amount: 1234567.89, want: 123456789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DollarsToCents(tt.amount); got != tt.want {
				t.Errorf("DollarsToCents(%v) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{name: "whole dollars", cents: 49900, want: "$499.00"},
		{name: "dollars and cents", cents: 1234, want: "$12.34"},
		{name: "under a dollar", cents: 5, want: "$0.05"},
		{name: "zero", cents: 0, want: "$0.00"},
		{name: "negative", cents: -1250, want: "-$12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCents(tt.cents); got != tt.want {
				t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}
