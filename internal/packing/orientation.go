package packing

// Axis names one of the three box edges.
type Axis int

const (
	Length Axis = iota
	Width
	Height
)

func (a Axis) String() string {
	switch a {
	case Length:
		return "length"
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return "unknown"
	}
}

// Orientation assigns the box edges to the pallet x, y and z axes.
type Orientation struct {
	Index int
	Label string
	Axes  [3]Axis
}

// orientations is the fixed generation order; Index doubles as the tie-break ordinal.
var orientations = [6]Orientation{
	newOrientation(1, Length, Width, Height),
	newOrientation(2, Width, Length, Height),
	newOrientation(3, Length, Height, Width),
	newOrientation(4, Height, Length, Width),
	newOrientation(5, Width, Height, Length),
	newOrientation(6, Height, Width, Length),
}

func newOrientation(index int, x, y, z Axis) Orientation {
	return Orientation{
		Index: index,
		Label: x.String() + "×" + y.String() + "×" + z.String(),
		Axes:  [3]Axis{x, y, z},
	}
}

// Orientations returns the six candidates in generation order.
func Orientations() []Orientation {
	out := make([]Orientation, len(orientations))
	copy(out[:], orientations[:])
	return out
}

// Apply maps the box edges of in onto the orientation's axes.
func (o Orientation) Apply(in Inputs) Dimensions {
	edge := func(a Axis) float64 {
		switch a {
		case Length:
			return in.BoxLength
		case Width:
			return in.BoxWidth
		default:
			return in.BoxHeight
		}
	}
	return Dimensions{X: edge(o.Axes[0]), Y: edge(o.Axes[1]), Z: edge(o.Axes[2])}
}
