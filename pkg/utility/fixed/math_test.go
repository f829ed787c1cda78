package fixed

import (
	"testing"
)

func TestFixedMath_Clamp(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		low  Point
		high Point
		want string
	}{
		{"inside range", One, NegOne, Two, "1"},
		{"below low", MustFromString("-3"), NegOne, One, "-1"},
		{"above high", Ten, NegOne, One, "1"},
		{"at low bound", NegOne, NegOne, One, "-1"},
		{"at high bound", One, NegOne, One, "1"},
		{"zero range", Two, Zero, Zero, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.p, tt.low, tt.high); got.String() != tt.want {
				t.Errorf("Clamp() = %s; want %s", got.String(), tt.want)
			}
		})
	}
}

func TestFixedMath_MinMax(t *testing.T) {
	tests := []struct {
		name    string
		a       Point
		b       Point
		wantMin string
		wantMax string
	}{
		{"ordered", One, Two, "1", "2"},
		{"reversed", Two, One, "1", "2"},
		{"equal", Ten, Ten, "10", "10"},
		{"negative", NegOne, Zero, "-1", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Min(tt.a, tt.b); got.String() != tt.wantMin {
				t.Errorf("Min() = %s; want %s", got.String(), tt.wantMin)
			}
			if got := Max(tt.a, tt.b); got.String() != tt.wantMax {
				t.Errorf("Max() = %s; want %s", got.String(), tt.wantMax)
			}
		})
	}
}

func TestFixedMath_Sum(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   string
	}{
		{"empty", nil, "0"},
		{"single", []Point{Ten}, "10"},
		{"mixed signs", []Point{One, NegOne, Two}, "2"},
		{"decimals", []Point{MustFromString("0.1"), MustFromString("0.2")}, "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum(tt.points); got.String() != tt.want {
				t.Errorf("Sum() = %s; want %s", got.String(), tt.want)
			}
		})
	}
}
