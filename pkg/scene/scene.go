package scene

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/network"
)

// =============================================================================
// Types
// =============================================================================

// Scene is the canonical serialization of a layout result.
type Scene struct {
	Layers      []arch.Layer      `json:"layers"`
	Extrema     arch.Extrema      `json:"extrema"`
	Scale       layout.Scale      `json:"scale"`
	Radius      float64           `json:"radius"`
	Origin      Vec               `json:"origin"`
	Centered    bool              `json:"centered"`
	Neurons     []Neuron          `json:"neurons"`
	Activations []json.RawMessage `json:"activations,omitempty"`
	Bounds      Box               `json:"bounds"`
}

// Vec is a JSON-friendly 3D coordinate.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// R3 converts v to a gonum vector.
func (v Vec) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// VecOf converts a gonum vector.
func VecOf(v r3.Vec) Vec { return Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Box is an axis-aligned bounding box of neuron centers.
type Box struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

// Size returns the extent of b along each axis.
func (b Box) Size() Vec {
	return Vec{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Neuron is one placed neuron.
type Neuron struct {
	Index  int     `json:"index"`
	Layer  int     `json:"layer"`
	Column int     `json:"column"`
	Row    int     `json:"row"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// At returns the neuron center.
func (n Neuron) At() r3.Vec { return r3.Vec{X: n.X, Y: n.Y, Z: n.Z} }

// =============================================================================
// Construction
// =============================================================================

// FromNetwork computes the layout of n with opts and captures it as a Scene.
// The network's neuron handles are not touched.
func FromNetwork(n *network.Network, opts ...network.LayoutOption) (*Scene, error) {
	return New(n.Architecture(), n.Extrema(), n.LayoutOptions(opts...), n.Activations())
}

// New computes the layout of a and captures it as a Scene.
func New(a arch.Architecture, ext arch.Extrema, opts layout.Options, activations []json.RawMessage) (*Scene, error) {
	ps, err := layout.Positions(a, ext, opts)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Layers:      append([]arch.Layer(nil), a...),
		Extrema:     ext,
		Scale:       opts.Scale,
		Radius:      opts.Radius,
		Origin:      VecOf(opts.Origin),
		Centered:    opts.Centered,
		Neurons:     make([]Neuron, len(ps)),
		Activations: activations,
	}
	for i, p := range ps {
		s.Neurons[i] = Neuron{
			Index:  p.Index,
			Layer:  p.Layer,
			Column: p.Column,
			Row:    p.Row,
			X:      p.At.X,
			Y:      p.At.Y,
			Z:      p.At.Z,
		}
	}
	if lo, hi, ok := layout.Bounds(ps); ok {
		s.Bounds = Box{Min: VecOf(lo), Max: VecOf(hi)}
	}
	return s, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Architecture returns the scene's layers as an architecture.
func (s *Scene) Architecture() arch.Architecture { return arch.Architecture(s.Layers) }

// Options returns the layout options the scene was computed with.
func (s *Scene) Options() layout.Options {
	return layout.Options{
		Origin:   s.Origin.R3(),
		Scale:    s.Scale,
		Centered: s.Centered,
		Radius:   s.Radius,
	}
}

// Placements returns the neurons as layout placements.
func (s *Scene) Placements() []layout.Placement {
	out := make([]layout.Placement, len(s.Neurons))
	for i, n := range s.Neurons {
		out[i] = layout.Placement{Index: n.Index, Layer: n.Layer, Column: n.Column, Row: n.Row, At: n.At()}
	}
	return out
}

// LayerNeurons returns the neurons of layer li.
func (s *Scene) LayerNeurons(li int) []Neuron {
	var out []Neuron
	for _, n := range s.Neurons {
		if n.Layer == li {
			out = append(out, n)
		}
	}
	return out
}

// Replay calls place once per stored neuron, in order, with the scene
// radius. It stops at the first failure and returns the handles created so
// far with a PLACEMENT_FAILED error.
func (s *Scene) Replay(place layout.PlaceFunc) ([]layout.Handle, error) {
	if place == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "placement function is nil")
	}
	handles := make([]layout.Handle, 0, len(s.Neurons))
	for _, n := range s.Neurons {
		h, err := place(s.Radius, n.At())
		if err != nil {
			return handles, errors.Wrap(errors.ErrCodePlacementFailed, err, "neuron %d", n.Index)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Validate checks that the scene is internally consistent.
func (s *Scene) Validate() error {
	a := s.Architecture()
	if err := a.Validate(); err != nil {
		return err
	}
	if got := a.Extrema(); got != s.Extrema {
		return errors.New(errors.ErrCodeInvalidInput,
			"extrema %+v do not match layers (want %+v)", s.Extrema, got)
	}
	if err := s.Scale.Validate(); err != nil {
		return err
	}
	if !(s.Radius > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %v", s.Radius)
	}
	if want := a.NeuronCount(); len(s.Neurons) != want {
		return errors.New(errors.ErrCodeInvalidInput,
			"scene has %d neurons, architecture %s needs %d", len(s.Neurons), a, want)
	}
	for i, n := range s.Neurons {
		if n.Index != i {
			return errors.New(errors.ErrCodeInvalidInput, "neuron %d has index %d", i, n.Index)
		}
		if n.Layer < 0 || n.Layer >= len(s.Layers) {
			return errors.New(errors.ErrCodeInvalidInput, "neuron %d: layer %d out of range", i, n.Layer)
		}
	}
	return nil
}
