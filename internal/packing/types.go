package packing

// Inputs holds the six user supplied measurements. It is comparable and can be
// used directly as a map or cache key.
type Inputs struct {
	BoxLength      float64 `json:"boxLength"`
	BoxWidth       float64 `json:"boxWidth"`
	BoxHeight      float64 `json:"boxHeight"`
	PalletLength   float64 `json:"palletLength"`
	PalletWidth    float64 `json:"palletWidth"`
	MaxStackHeight float64 `json:"maxStackHeight"`
}

// Valid reports whether every measurement is strictly positive.
func (in Inputs) Valid() bool {
	for _, v := range in.values() {
		// NaN fails every comparison, so it is rejected here as well.
		if !(v > 0) {
			return false
		}
	}
	return true
}

func (in Inputs) values() [6]float64 {
	return [6]float64{in.BoxLength, in.BoxWidth, in.BoxHeight, in.PalletLength, in.PalletWidth, in.MaxStackHeight}
}

// Dimensions are the extents of a box once its edges have been assigned to axes.
type Dimensions struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Result describes one feasible orientation and the grid it produces.
// Results are values; callers always hold their own copy.
type Result struct {
	Index         int        `json:"index"`
	Label         string     `json:"label"`
	Dimensions    Dimensions `json:"dimensions"`
	BoxesX        int        `json:"boxesX"`
	BoxesY        int        `json:"boxesY"`
	BoxesPerLayer int        `json:"boxesPerLayer"`
	Layers        int        `json:"layers"`
	TotalBoxes    int        `json:"totalBoxes"`
	Efficiency    float64    `json:"efficiency"`
}

// Ranking is the ordered set of results, best efficiency first.
type Ranking []Result

// Best returns the top ranked result.
func (r Ranking) Best() (Result, bool) {
	if len(r) == 0 {
		return Result{}, false
	}
	return r[0], true
}

// Clone returns an independent copy of the ranking.
func (r Ranking) Clone() Ranking {
	out := make(Ranking, len(r))
	copy(out, r)
	return out
}

// Enumerator describes the behaviour required from a packing enumerator.
type Enumerator interface {
	Enumerate(in Inputs) Ranking
}
