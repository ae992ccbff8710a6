// Package network ties a validated architecture to its layout parameters.
//
// A [Network] is built once from a [Config] and is immutable afterwards,
// except for the list of neuron handles produced by the most recent call to
// [Network.Layout].
//
//	n, err := network.New(network.Config{
//	    Arch: []arch.LayerShape{arch.Scalar(784), arch.Scalar(300), arch.Scalar(10)},
//	})
//	if err != nil {
//	    return err // INVALID_LAYER_SHAPE, EMPTY_ARCHITECTURE, ...
//	}
//	handles, err := n.Layout(builder.Place, network.WithOrigin(r3.Vec{}))
//
// A Network is not safe for concurrent use.
package network

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
)

// Config is the construction input for a [Network].
type Config struct {
	// Arch lists the layer shapes in traversal order.
	Arch []arch.LayerShape `json:"arch"`
	// Activations holds opaque per-neuron activation values. They are passed
	// through untouched.
	Activations []json.RawMessage `json:"activations,omitempty"`
}

// Network owns a normalized architecture, its extrema, the default scale and
// the neuron radius.
type Network struct {
	arch        arch.Architecture
	extrema     arch.Extrema
	scale       layout.Scale
	radius      float64
	activations []json.RawMessage

	neurons []layout.Handle
}

// Option configures a [Network] at construction time.
type Option func(*Network)

// WithScale sets the default scale used by [Network.Layout].
func WithScale(s layout.Scale) Option { return func(n *Network) { n.scale = s } }

// WithRadius sets the neuron radius passed to the placement function.
func WithRadius(r float64) Option { return func(n *Network) { n.radius = r } }

// New validates cfg and builds a Network. Construction is all-or-nothing:
// an invalid layer, an empty architecture, a non-positive scale or radius
// abort it and no Network is returned.
func New(cfg Config, opts ...Option) (*Network, error) {
	a, ext, err := arch.Normalize(cfg.Arch)
	if err != nil {
		return nil, err
	}

	n := &Network{
		arch:        a,
		extrema:     ext,
		scale:       layout.DefaultScale,
		radius:      layout.DefaultRadius,
		activations: cfg.Activations,
	}
	for _, opt := range opts {
		opt(n)
	}

	if err := n.scale.Validate(); err != nil {
		return nil, err
	}
	if !(n.radius > 0) || math.IsInf(n.radius, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "neuron radius must be positive, got %v", n.radius)
	}
	return n, nil
}

// Architecture returns the normalized architecture.
func (n *Network) Architecture() arch.Architecture { return append(arch.Architecture(nil), n.arch...) }

// Extrema returns the widest and tallest layer dimensions.
func (n *Network) Extrema() arch.Extrema { return n.extrema }

// Scale returns the default layout scale.
func (n *Network) Scale() layout.Scale { return n.scale }

// Radius returns the neuron radius.
func (n *Network) Radius() float64 { return n.radius }

// Activations returns the opaque activation values from the config.
func (n *Network) Activations() []json.RawMessage { return n.activations }

// NeuronCount returns the number of neurons in the architecture.
func (n *Network) NeuronCount() int { return n.arch.NeuronCount() }

// Neurons returns the handles created by the most recent [Network.Layout].
func (n *Network) Neurons() []layout.Handle { return n.neurons }

// =============================================================================
// Layout
// =============================================================================

// LayoutOption configures a single layout call.
type LayoutOption func(*layoutConfig)

type layoutConfig struct {
	origin   r3.Vec
	centered bool
	scale    *layout.Scale
}

// WithOrigin sets the coordinate the layout starts from. Default (0, 0, 0).
func WithOrigin(o r3.Vec) LayoutOption { return func(c *layoutConfig) { c.origin = o } }

// Centered controls whether layers are centered on the widest/tallest layer.
// Layouts are centered unless Centered(false) is given.
func Centered(on bool) LayoutOption { return func(c *layoutConfig) { c.centered = on } }

// WithLayoutScale overrides the network's scale for one call.
func WithLayoutScale(s layout.Scale) LayoutOption { return func(c *layoutConfig) { c.scale = &s } }

// LayoutOptions resolves opts against the network defaults.
func (n *Network) LayoutOptions(opts ...LayoutOption) layout.Options {
	cfg := layoutConfig{centered: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	scale := n.scale
	if cfg.scale != nil {
		scale = *cfg.scale
	}
	return layout.Options{
		Origin:   cfg.origin,
		Scale:    scale,
		Centered: cfg.centered,
		Radius:   n.radius,
	}
}

// Positions computes every neuron position without placing anything.
func (n *Network) Positions(opts ...LayoutOption) ([]layout.Placement, error) {
	return layout.Positions(n.arch, n.extrema, n.LayoutOptions(opts...))
}

// Layout places one object per neuron by calling place in traversal order
// and returns the handles. The handles replace those of any previous call;
// objects created by earlier calls are left alone.
//
// If place fails, the handles created so far are stored and returned with
// the error.
func (n *Network) Layout(place layout.PlaceFunc, opts ...LayoutOption) ([]layout.Handle, error) {
	handles, err := layout.Place(n.arch, n.extrema, n.LayoutOptions(opts...), place)
	n.neurons = handles
	return handles, err
}
