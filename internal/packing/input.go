package packing

import (
	"math"
	"strconv"
	"strings"
)

// Coerce maps NaN, infinities and negative values to 0.
func Coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseValue reads a free-form numeric field. Anything that is not a finite,
// non-negative number becomes 0.
func ParseValue(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return Coerce(v)
}

// ParseInputs coerces six raw fields in the order box length, box width,
// box height, pallet length, pallet width, max stack height.
func ParseInputs(raw [6]string) Inputs {
	return Inputs{
		BoxLength:      ParseValue(raw[0]),
		BoxWidth:       ParseValue(raw[1]),
		BoxHeight:      ParseValue(raw[2]),
		PalletLength:   ParseValue(raw[3]),
		PalletWidth:    ParseValue(raw[4]),
		MaxStackHeight: ParseValue(raw[5]),
	}
}

// Sanitize applies Coerce to every field.
func (in Inputs) Sanitize() Inputs {
	return Inputs{
		BoxLength:      Coerce(in.BoxLength),
		BoxWidth:       Coerce(in.BoxWidth),
		BoxHeight:      Coerce(in.BoxHeight),
		PalletLength:   Coerce(in.PalletLength),
		PalletWidth:    Coerce(in.PalletWidth),
		MaxStackHeight: Coerce(in.MaxStackHeight),
	}
}
