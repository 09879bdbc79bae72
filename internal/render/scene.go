package render

import (
	"encoding/json"
	"io"

	"github.com/go-gl/mathgl/mgl64"
)

// PalletSlabHeight is the thickness of the pallet below the first layer.
const PalletSlabHeight = 10.0

// Scene is the payload a 3D viewer rebuilds its content from. Coordinates are
// Y-up: pallet length runs along X, pallet width along Z, layers grow along Y.
type Scene struct {
	XCount  int         `json:"xCount"`
	YCount  int         `json:"yCount"`
	Layers  int         `json:"layers"`
	BoxDims SceneDims   `json:"boxDims"`
	Pallet  SceneMesh   `json:"pallet"`
	Boxes   []SceneMesh `json:"boxes"`
}

// SceneDims repeats the per-box extents in the layout's own axes.
type SceneDims struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SceneMesh is an axis-aligned cuboid centred on Position.
type SceneMesh struct {
	Position mgl64.Vec3 `json:"position"`
	Size     mgl64.Vec3 `json:"size"`
}

// SceneOption configures the scene renderer.
type SceneOption func(*sceneRenderer)

// WithSceneBoxLimit caps the boxes placed across all layers. Zero or less
// disables the cap.
func WithSceneBoxLimit(n int) SceneOption {
	return func(r *sceneRenderer) { r.maxBoxes = n }
}

type sceneRenderer struct {
	maxBoxes int
}

// NewScene returns a renderer that emits the JSON scene payload.
func NewScene(opts ...SceneOption) LayoutRenderer {
	r := sceneRenderer{maxBoxes: DefaultMaxBoxes}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (sceneRenderer) ContentType() string { return "application/json" }

func (r sceneRenderer) Render(w io.Writer, l Layout) error {
	scene, err := buildScene(l, r.maxBoxes)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(scene)
}

// BuildScene places every box of every layer, centring the grid on the origin.
// Layouts with more than DefaultMaxBoxes boxes are rejected with ErrTooManyBoxes.
func BuildScene(l Layout) (Scene, error) {
	return buildScene(l, DefaultMaxBoxes)
}

func buildScene(l Layout, limit int) (Scene, error) {
	if err := l.ValidateDrawn(l.Layers, limit); err != nil {
		return Scene{}, err
	}

	d := l.BoxDims
	// three.js boxes are sized (width, height, depth) = (x, z, y).
	size := mgl64.Vec3{d.X, d.Z, d.Y}
	origin := mgl64.Vec3{
		-float64(l.XCount)*d.X/2 + d.X/2,
		PalletSlabHeight + d.Z/2,
		-float64(l.YCount)*d.Y/2 + d.Y/2,
	}

	boxes := make([]SceneMesh, 0, l.TotalBoxes())
	for layer := 0; layer < l.Layers; layer++ {
		for x := 0; x < l.XCount; x++ {
			for y := 0; y < l.YCount; y++ {
				offset := mgl64.Vec3{float64(x) * d.X, float64(layer) * d.Z, float64(y) * d.Y}
				boxes = append(boxes, SceneMesh{Position: origin.Add(offset), Size: size})
			}
		}
	}

	return Scene{
		XCount:  l.XCount,
		YCount:  l.YCount,
		Layers:  l.Layers,
		BoxDims: SceneDims{X: d.X, Y: d.Y, Z: d.Z},
		Pallet: SceneMesh{
			Position: mgl64.Vec3{0, PalletSlabHeight / 2, 0},
			Size:     mgl64.Vec3{l.PalletLength, PalletSlabHeight, l.PalletWidth},
		},
		Boxes: boxes,
	}, nil
}
