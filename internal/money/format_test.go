package money

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "Rp 0"},
		{"small", 950, "Rp 950"},
		{"thousands", 15000, "Rp 15.000"},
		{"millions", 1234567, "Rp 1.234.567"},
		{"rounds down", 1499.49, "Rp 1.499"},
		{"rounds half up", 2500.5, "Rp 2.501"},
		{"sub unit", 0.4, "Rp 0"},
		{"NaN", math.NaN(), "Rp 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.amount); got != tt.want {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{2500000, "2.500.000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		count int
		want  int64
	}{
		{"zero units", 5000, 0, 0},
		{"exact", 3000, 3, 1000},
		{"rounds", 1000, 3, 333},
		{"rounds half up", 5, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Average(tt.total, tt.count); got != tt.want {
				t.Errorf("Average(%v, %d) = %d, want %d", tt.total, tt.count, got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	if got := Round(math.Inf(1)); got != 0 {
		t.Errorf("Round(+Inf) = %d, want 0", got)
	}
	if got := Round(12.5); got != 13 {
		t.Errorf("Round(12.5) = %d, want 13", got)
	}
}
