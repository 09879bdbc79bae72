package packing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// MaxTotalBoxes is the largest box count a single result may have. Candidates
// above it are excluded: past 2^53 a float64 can no longer hold every count
// exactly, so the floor divisions and the efficiency would silently drift.
const MaxTotalBoxes = 1 << 53

// countLimit also keeps counts inside int on 32-bit platforms.
var countLimit = math.Min(MaxTotalBoxes, math.MaxInt)

type gridEnumerator struct{}

// New creates an Enumerator that tries every axis-aligned orientation on a regular grid.
func New() Enumerator {
	return gridEnumerator{}
}

// Enumerate is a shorthand for New().Enumerate(in).
func Enumerate(in Inputs) Ranking {
	return gridEnumerator{}.Enumerate(in)
}

func (gridEnumerator) Enumerate(in Inputs) Ranking {
	results := make(Ranking, 0, len(orientations))
	if !in.Valid() {
		return results
	}

	for _, o := range orientations {
		if res, ok := evaluate(o, in); ok {
			results = append(results, res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Efficiency > results[j].Efficiency
	})
	return results
}

func evaluate(o Orientation, in Inputs) (Result, bool) {
	dim := o.Apply(in)
	if dim.Z > in.MaxStackHeight || dim.X == 0 || dim.Y == 0 {
		return Result{}, false
	}

	boxesX := fit(in.PalletLength, dim.X)
	boxesY := fit(in.PalletWidth, dim.Y)
	layers := fit(in.MaxStackHeight, dim.Z)
	if boxesX < 1 || boxesY < 1 || layers < 1 {
		return Result{}, false
	}
	if boxesX*boxesY*layers > countLimit {
		return Result{}, false
	}

	palletArea := in.PalletLength * in.PalletWidth
	if palletArea == 0 {
		return Result{}, false
	}
	usedArea := (dim.X * boxesX) * (dim.Y * boxesY)

	perLayer := int(boxesX) * int(boxesY)
	return Result{
		Index:         o.Index,
		Label:         o.Label,
		Dimensions:    dim,
		BoxesX:        int(boxesX),
		BoxesY:        int(boxesY),
		BoxesPerLayer: perLayer,
		Layers:        int(layers),
		TotalBoxes:    perLayer * int(layers),
		Efficiency:    roundPercent(usedArea / palletArea * 100),
	}, true
}

// fit counts how many whole extents fit into span. The count stays a float so
// callers can check it against countLimit before converting.
func fit(span, extent float64) float64 {
	n := math.Floor(span / extent)
	if math.IsNaN(n) || n < 1 {
		return 0
	}
	return n
}

// roundPercent rounds half away from zero to one decimal and clamps to [0, 100].
func roundPercent(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	rounded, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return math.Min(rounded, 100)
}
