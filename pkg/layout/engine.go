package layout

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
)

// Handle is an opaque reference to an object created by a [PlaceFunc].
// The layout engine never inspects it.
type Handle any

// PlaceFunc creates one primitive of the given radius centered at at and
// returns a handle to it. Each call must create exactly one new object.
type PlaceFunc func(radius float64, at r3.Vec) (Handle, error)

// Options configures a layout traversal.
type Options struct {
	// Origin is where the first neuron of an un-centered layout is placed.
	Origin r3.Vec
	// Scale is the step between neighbours along each axis.
	Scale Scale
	// Centered centers every layer on the widest/tallest layer.
	Centered bool
	// Radius is passed to the PlaceFunc for every neuron.
	Radius float64
}

// Placement is the computed position of a single neuron.
type Placement struct {
	Index  int    // position in traversal order
	Layer  int    // layer index along the primary axis
	Column int    // index along the width axis
	Row    int    // index along the height axis
	At     r3.Vec // world coordinate
}

// Walk visits every neuron of a in (layer, column, row) order and calls
// visit with its position. Walk stops at the first error returned by visit
// and returns it.
func Walk(a arch.Architecture, ext arch.Extrema, opts Options, visit func(Placement) error) error {
	if err := opts.Scale.Validate(); err != nil {
		return err
	}

	c := Centerer{Extrema: ext, Scale: opts.Scale}
	step := opts.Scale
	origin := opts.Origin

	index := 0
	x := origin.X
	for li, l := range a {
		var yOff, zOff float64
		if opts.Centered {
			var err error
			if yOff, zOff, err = c.Offset2D(l); err != nil {
				return err
			}
		}

		y := origin.Y + yOff
		for col := 0; col < l.Width; col++ {
			z := origin.Z + zOff
			for row := 0; row < l.Height; row++ {
				p := Placement{
					Index:  index,
					Layer:  li,
					Column: col,
					Row:    row,
					At:     r3.Vec{X: x, Y: y, Z: z},
				}
				if err := visit(p); err != nil {
					return err
				}
				index++
				z += step.Z
			}
			y += step.Y
		}
		x += step.X
	}
	return nil
}

// Positions materializes the traversal of a into an ordered slice.
func Positions(a arch.Architecture, ext arch.Extrema, opts Options) ([]Placement, error) {
	out := make([]Placement, 0, min(a.NeuronCount(), preallocLimit))
	err := Walk(a, ext, opts, func(p Placement) error {
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Place walks a and invokes place once per neuron, in traversal order, each
// call completing before the next starts. It returns the handles in the same
// order.
//
// If place fails, Place stops and returns the handles created so far
// together with a PLACEMENT_FAILED error. Those objects are not removed.
func Place(a arch.Architecture, ext arch.Extrema, opts Options, place PlaceFunc) ([]Handle, error) {
	if place == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "placement function is nil")
	}

	handles := make([]Handle, 0, min(a.NeuronCount(), preallocLimit))
	err := Walk(a, ext, opts, func(p Placement) error {
		h, err := place(opts.Radius, p.At)
		if err != nil {
			return errors.Wrap(errors.ErrCodePlacementFailed, err,
				"neuron %d (layer %d, column %d, row %d)", p.Index, p.Layer, p.Column, p.Row)
		}
		handles = append(handles, h)
		return nil
	})
	return handles, err
}

// Bounds returns the axis-aligned bounding box of the placement centers.
// ok is false when ps is empty.
func Bounds(ps []Placement) (lo, hi r3.Vec, ok bool) {
	if len(ps) == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	lo, hi = ps[0].At, ps[0].At
	for _, p := range ps[1:] {
		lo.X, lo.Y, lo.Z = min(lo.X, p.At.X), min(lo.Y, p.At.Y), min(lo.Z, p.At.Z)
		hi.X, hi.Y, hi.Z = max(hi.X, p.At.X), max(hi.Y, p.At.Y), max(hi.Z, p.At.Z)
	}
	return lo, hi, true
}

// preallocLimit caps capacity hints taken from an architecture's neuron
// count; larger traversals grow their slices as they go.
const preallocLimit = 1 << 16
