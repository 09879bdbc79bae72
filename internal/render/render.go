// Package render turns a selected packing result into something a person can
// look at. The packing package never imports it; presentation code picks a
// LayoutRenderer and hands it a Layout.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
)

// DefaultMaxBoxes is how many boxes a renderer draws for one layout unless
// configured otherwise.
const DefaultMaxBoxes = 20_000

var (
	// ErrInvalidLayout is returned when a layout has no boxes or degenerate dimensions.
	ErrInvalidLayout = errors.New("layout must have positive box counts and dimensions")

	// ErrTooManyBoxes is returned when drawing a layout would exceed the renderer's box limit.
	ErrTooManyBoxes = errors.New("layout has too many boxes to draw")
)

// Layout is everything a renderer needs to draw one selected result.
type Layout struct {
	XCount       int                `json:"xCount"`
	YCount       int                `json:"yCount"`
	Layers       int                `json:"layers"`
	BoxDims      packing.Dimensions `json:"boxDims"`
	PalletLength float64            `json:"palletLength"`
	PalletWidth  float64            `json:"palletWidth"`
}

// LayoutFor builds the layout of res on a pallet of the given footprint.
func LayoutFor(res packing.Result, palletLength, palletWidth float64) Layout {
	return Layout{
		XCount:       res.BoxesX,
		YCount:       res.BoxesY,
		Layers:       res.Layers,
		BoxDims:      res.Dimensions,
		PalletLength: palletLength,
		PalletWidth:  palletWidth,
	}
}

// Validate checks the layout can be drawn.
func (l Layout) Validate() error {
	if l.XCount < 1 || l.YCount < 1 || l.Layers < 1 {
		return fmt.Errorf("%w: counts %dx%dx%d", ErrInvalidLayout, l.XCount, l.YCount, l.Layers)
	}
	if !(l.BoxDims.X > 0 && l.BoxDims.Y > 0 && l.BoxDims.Z > 0) {
		return fmt.Errorf("%w: box %vx%vx%v", ErrInvalidLayout, l.BoxDims.X, l.BoxDims.Y, l.BoxDims.Z)
	}
	if !(l.PalletLength > 0 && l.PalletWidth > 0) {
		return fmt.Errorf("%w: pallet %vx%v", ErrInvalidLayout, l.PalletLength, l.PalletWidth)
	}
	return nil
}

// ValidateDrawn checks the layout and that drawing layers of it stays within
// limit boxes. A limit of zero or less disables the check.
func (l Layout) ValidateDrawn(layers, limit int) error {
	if err := l.Validate(); err != nil {
		return err
	}
	drawn := float64(l.XCount) * float64(l.YCount) * float64(layers)
	if limit > 0 && drawn > float64(limit) {
		return fmt.Errorf("%w: %.0f boxes, limit %d", ErrTooManyBoxes, drawn, limit)
	}
	return nil
}

// TotalBoxes is the number of boxes drawn across all layers.
func (l Layout) TotalBoxes() int {
	return l.XCount * l.YCount * l.Layers
}

// Caption is the one-line description shown under a diagram.
func (l Layout) Caption() string {
	return fmt.Sprintf("Top view - %d x %d boxes per layer | %d layers stacked (%d total boxes)",
		l.XCount, l.YCount, l.Layers, l.TotalBoxes())
}

// LayoutRenderer renders a packing layout given box counts and dimensions.
type LayoutRenderer interface {
	Render(w io.Writer, l Layout) error
	ContentType() string
}

// Kind names a renderer implementation.
type Kind string

const (
	KindSVG   Kind = "svg"
	KindScene Kind = "scene"
	KindText  Kind = "text"
)
