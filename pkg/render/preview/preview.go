// Package preview draws a flat projection of a neuron layout with gonum/plot.
//
// Each layer becomes one scatter series in its own color, so the layer
// structure and the centering are visible at a glance without a 3D viewer.
// [ProjectionSide] looks along the height axis (x against y) and
// [ProjectionFront] looks along the primary axis (y against z), which stacks
// every layer on top of the others and shows how they are centered.
package preview

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/scene"
)

// Projection selects the plane the neurons are projected onto.
type Projection string

const (
	ProjectionSide  Projection = "side"
	ProjectionFront Projection = "front"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Options configures a preview.
type Options struct {
	Projection Projection
	Format     string
	// Width and Height of the image. Zero uses 8x6 inches.
	Width, Height vg.Length
	// Title overrides the default title, the architecture string.
	Title string
}

func (o *Options) setDefaults() {
	if o.Projection == "" {
		o.Projection = ProjectionSide
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Width == 0 {
		o.Width = 8 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 6 * vg.Inch
	}
}

// Render draws s and returns the encoded image.
func Render(s *scene.Scene, opts Options) ([]byte, error) {
	opts.setDefaults()
	if opts.Format != FormatPNG && opts.Format != FormatSVG {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "preview format %q (want png or svg)", opts.Format)
	}

	p, err := Plot(s, opts.Projection)
	if err != nil {
		return nil, err
	}
	if opts.Title != "" {
		p.Title.Text = opts.Title
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s preview", opts.Format)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s preview", opts.Format)
	}
	return buf.Bytes(), nil
}

// Plot builds the scatter plot of s without encoding it.
func Plot(s *scene.Scene, proj Projection) (*plot.Plot, error) {
	xLabel, yLabel, project, err := axes(proj)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = s.Architecture().String()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	colors := layerColors(len(s.Layers))
	glyph := glyphRadius(s)

	for li, l := range s.Layers {
		neurons := s.LayerNeurons(li)
		if len(neurons) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(neurons))
		for i, n := range neurons {
			pts[i].X, pts[i].Y = project(n)
		}

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "layer %d scatter", li)
		}
		sc.GlyphStyle.Color = colors[li]
		sc.GlyphStyle.Radius = glyph
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("layer %d (%s)", li, l), sc)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

func axes(proj Projection) (x, y string, project func(scene.Neuron) (float64, float64), err error) {
	switch proj {
	case ProjectionSide, "":
		return "x (layer)", "y (width)", func(n scene.Neuron) (float64, float64) { return n.X, n.Y }, nil
	case ProjectionFront:
		return "y (width)", "z (height)", func(n scene.Neuron) (float64, float64) { return n.Y, n.Z }, nil
	}
	return "", "", nil, errors.New(errors.ErrCodeInvalidInput, "unknown projection %q (want side or front)", proj)
}

// glyphRadius shrinks markers for large layers so they do not merge.
func glyphRadius(s *scene.Scene) vg.Length {
	widest := math.Max(float64(s.Extrema.WidestLayer), float64(s.Extrema.TallestLayer))
	r := 60 / math.Max(widest, 1)
	return vg.Points(math.Min(math.Max(r, 0.5), 4))
}

// layerColors creates a palette of distinct colors, one per layer.
func layerColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(max(n, 1))
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	conv := func(t float64) uint8 { return uint8(math.Round(hueToRGB(p, q, t) * 255)) }
	return conv(h + 1.0/3), conv(h), conv(h - 1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
