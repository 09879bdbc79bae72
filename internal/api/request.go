package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
)

// numberField accepts a JSON number, a numeric string, or anything else (which
// becomes 0), mirroring free-form numeric entry.
type numberField float64

func (n *numberField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*n = numberField(packing.ParseValue(raw))
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = numberField(packing.Coerce(v))
	return nil
}

type inputsRequest struct {
	BoxLength      numberField `json:"boxLength"`
	BoxWidth       numberField `json:"boxWidth"`
	BoxHeight      numberField `json:"boxHeight"`
	PalletLength   numberField `json:"palletLength"`
	PalletWidth    numberField `json:"palletWidth"`
	MaxStackHeight numberField `json:"maxStackHeight"`
}

func (r inputsRequest) toInputs() packing.Inputs {
	return packing.Inputs{
		BoxLength:      float64(r.BoxLength),
		BoxWidth:       float64(r.BoxWidth),
		BoxHeight:      float64(r.BoxHeight),
		PalletLength:   float64(r.PalletLength),
		PalletWidth:    float64(r.PalletWidth),
		MaxStackHeight: float64(r.MaxStackHeight),
	}
}

type selectionRequest struct {
	Index *int `json:"index"`
}
