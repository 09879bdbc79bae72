package presentation

import (
	"fmt"
	"strconv"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
)

// Tier buckets an efficiency for display.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierFor returns high above 85%, medium above 70%, otherwise low.
func TierFor(efficiency float64) Tier {
	switch {
	case efficiency > 85:
		return TierHigh
	case efficiency > 70:
		return TierMedium
	default:
		return TierLow
	}
}

// Summary is the list entry shown for one ranked result.
type Summary struct {
	Rank       int            `json:"rank"`
	Label      string         `json:"label"`
	Efficiency float64        `json:"efficiency"`
	Tier       Tier           `json:"tier"`
	Dimensions string         `json:"dimensions"`
	Layering   string         `json:"layering"`
	TotalBoxes int            `json:"totalBoxes"`
	Result     packing.Result `json:"result"`
}

// Summarize builds the display entries for a ranking, keeping its order.
func Summarize(ranking packing.Ranking) []Summary {
	out := make([]Summary, 0, len(ranking))
	for i, res := range ranking {
		out = append(out, summarize(i, res))
	}
	return out
}

func summarize(rank int, res packing.Result) Summary {
	return Summary{
		Rank:       rank,
		Label:      fmt.Sprintf("Option %d: %s", res.Index, res.Label),
		Efficiency: res.Efficiency,
		Tier:       TierFor(res.Efficiency),
		Dimensions: fmt.Sprintf("%sx%sx%s", formatNumber(res.Dimensions.X), formatNumber(res.Dimensions.Y), formatNumber(res.Dimensions.Z)),
		Layering:   fmt.Sprintf("%d boxes/layer x %d layers", res.BoxesPerLayer, res.Layers),
		TotalBoxes: res.TotalBoxes,
		Result:     res,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
