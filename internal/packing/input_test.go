package packing

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{"40", 40},
		{" 12.5 ", 12.5},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e2", 100},
	}
	for _, tc := range tests {
		if got := ParseValue(tc.raw); got != tc.want {
			t.Fatalf("ParseValue(%q): expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestParseInputsOrder(t *testing.T) {
	t.Parallel()

	got := ParseInputs([6]string{"1", "2", "3", "4", "5", "x"})
	want := Inputs{BoxLength: 1, BoxWidth: 2, BoxHeight: 3, PalletLength: 4, PalletWidth: 5}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.Valid() {
		t.Fatalf("expected inputs with a zero field to be invalid")
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	in := Inputs{BoxLength: -1, BoxWidth: math.NaN(), BoxHeight: math.Inf(1), PalletLength: 120, PalletWidth: 80, MaxStackHeight: 10}
	got := in.Sanitize()
	want := Inputs{PalletLength: 120, PalletWidth: 80, MaxStackHeight: 10}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
