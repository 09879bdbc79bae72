package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
)

const (
	defaultBudget   = 400.0
	defaultMaxScale = 4.0
	captionHeight   = 24.0
)

// SVGOption configures the top view renderer.
type SVGOption func(*svgRenderer)

// WithBudget sets the display size, in pixels, of the longest pallet side.
func WithBudget(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.budget = px
		}
	}
}

// WithMaxScale caps the pixels drawn per unit of length.
func WithMaxScale(scale float64) SVGOption {
	return func(r *svgRenderer) {
		if scale > 0 {
			r.maxScale = scale
		}
	}
}

// WithBoxLimit caps the boxes drawn in one top view. Zero or less disables the cap.
func WithBoxLimit(n int) SVGOption {
	return func(r *svgRenderer) { r.maxBoxes = n }
}

// WithCaption toggles the text line under the pallet.
func WithCaption(enabled bool) SVGOption {
	return func(r *svgRenderer) { r.caption = enabled }
}

type svgRenderer struct {
	budget   float64
	maxScale float64
	caption  bool
	maxBoxes int
}

// NewSVG returns a renderer producing a scaled 2D top view of one layer.
func NewSVG(opts ...SVGOption) LayoutRenderer {
	r := &svgRenderer{
		budget:   defaultBudget,
		maxScale: defaultMaxScale,
		caption:  true,
		maxBoxes: DefaultMaxBoxes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *svgRenderer) ContentType() string { return "image/svg+xml" }

// Scale is the pixels-per-unit factor used for a pallet footprint.
func (r *svgRenderer) Scale(palletLength, palletWidth float64) float64 {
	return math.Min(r.budget/math.Max(palletLength, palletWidth), r.maxScale)
}

func (r *svgRenderer) Render(w io.Writer, l Layout) error {
	if err := l.ValidateDrawn(1, r.maxBoxes); err != nil {
		return err
	}

	scale := r.Scale(l.PalletLength, l.PalletWidth)
	width := l.PalletLength * scale
	height := l.PalletWidth * scale
	total := height
	if r.caption {
		total += captionHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, total, width, total)
	fmt.Fprintf(&buf, `  <rect class="pallet-base" x="0" y="0" width="%.2f" height="%.2f" style="fill:#d2a679;stroke:#8b4513;stroke-width:2"/>`+"\n",
		width, height)

	bw := l.BoxDims.X * scale
	bh := l.BoxDims.Y * scale
	buf.WriteString(`  <g class="boxes">` + "\n")
	for x := 0; x < l.XCount; x++ {
		for y := 0; y < l.YCount; y++ {
			fmt.Fprintf(&buf, `    <rect class="box-visual" x="%.2f" y="%.2f" width="%.2f" height="%.2f" style="fill:#3b82f6;fill-opacity:0.7;stroke:#1e3a8a;stroke-width:1"/>`+"\n",
				float64(x)*bw, float64(y)*bh, bw, bh)
		}
	}
	buf.WriteString("  </g>\n")

	if r.caption {
		fmt.Fprintf(&buf, `  <text class="visualization-info" x="%.2f" y="%.2f" text-anchor="middle" style="font-family:sans-serif;font-size:12px;fill:#333">%s</text>`+"\n",
			width/2, height+captionHeight*0.7, html.EscapeString(l.Caption()))
	}
	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}
