package arch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/netblend/netblend/pkg/errors"
)

// Layer is a normalized layer: a grid of Width columns by Height rows.
// Scalar layers have Height 1.
type Layer struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size returns the number of neurons in the layer. It saturates at
// math.MaxInt instead of overflowing.
func (l Layer) Size() int {
	n, _ := mulInt(l.Width, l.Height)
	return n
}

// String returns "784" for 1-D layers and "28x28" for 2-D layers.
func (l Layer) String() string {
	if l.Height == 1 {
		return strconv.Itoa(l.Width)
	}
	return fmt.Sprintf("%dx%d", l.Width, l.Height)
}

// Architecture is an ordered list of normalized layers. Order is the
// traversal order along the primary axis.
type Architecture []Layer

// NeuronCount returns the total number of neurons across all layers. It
// saturates at math.MaxInt; [Normalize] and [Architecture.Validate] reject
// architectures whose count does not fit in an int.
func (a Architecture) NeuronCount() int {
	n, _ := a.count()
	return n
}

func (a Architecture) count() (int, bool) {
	n := 0
	for _, l := range a {
		size, ok := mulInt(l.Width, l.Height)
		if !ok {
			return math.MaxInt, false
		}
		if n, ok = addInt(n, size); !ok {
			return math.MaxInt, false
		}
	}
	return n, true
}

func (a Architecture) checkCount() error {
	if _, ok := a.count(); !ok {
		return errors.New(errors.ErrCodeInvalidInput,
			"architecture %s has more neurons than fit in an int", a)
	}
	return nil
}

// mulInt and addInt operate on non-negative operands and saturate at
// math.MaxInt, reporting false on overflow.
func mulInt(a, b int) (int, bool) {
	if a > 0 && b > math.MaxInt/a {
		return math.MaxInt, false
	}
	return a * b, true
}

func addInt(a, b int) (int, bool) {
	if a > math.MaxInt-b {
		return math.MaxInt, false
	}
	return a + b, true
}

// String joins the layers with dashes, e.g. "784-300-10".
func (a Architecture) String() string {
	parts := make([]string, len(a))
	for i, l := range a {
		parts[i] = l.String()
	}
	return strings.Join(parts, "-")
}

// Validate checks that a already satisfies the invariants [Normalize]
// guarantees. It is used for architectures that arrive in normalized form,
// such as a decoded scene.
func (a Architecture) Validate() error {
	if len(a) == 0 {
		return errors.New(errors.ErrCodeEmptyArchitecture, "architecture has no layers")
	}
	for i, l := range a {
		if l.Width <= 0 || l.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidLayerShape,
				"layer %d: dimensions %dx%d must be positive", i, l.Width, l.Height)
		}
	}
	return a.checkCount()
}

// Extrema returns the widest and tallest dimensions in a.
func (a Architecture) Extrema() Extrema {
	var ext Extrema
	for _, l := range a {
		ext.observe(l)
	}
	return ext
}

// Extrema holds the network-wide maxima used as the centering reference.
type Extrema struct {
	WidestLayer  int `json:"widest_layer"`
	TallestLayer int `json:"tallest_layer"`
}

func (e *Extrema) observe(l Layer) {
	if l.Width > e.WidestLayer {
		e.WidestLayer = l.Width
	}
	if l.Height > e.TallestLayer {
		e.TallestLayer = l.Height
	}
}

// Normalize validates raw layer shapes and resolves them into an
// [Architecture], computing the [Extrema] in the same pass.
//
// It fails with EMPTY_ARCHITECTURE when raw is empty, with
// INVALID_LAYER_SHAPE on the first invalid entry and with INVALID_INPUT when
// the total neuron count overflows an int. No partial result is returned on
// failure.
func Normalize(raw []LayerShape) (Architecture, Extrema, error) {
	if len(raw) == 0 {
		return nil, Extrema{}, errors.New(errors.ErrCodeEmptyArchitecture, "architecture has no layers")
	}

	a := make(Architecture, len(raw))
	var ext Extrema
	for i, s := range raw {
		l, err := s.resolve()
		if err != nil {
			return nil, Extrema{}, errors.Wrap(errors.ErrCodeInvalidLayerShape, err, "layer %d", i)
		}
		a[i] = l
		ext.observe(l)
	}
	if err := a.checkCount(); err != nil {
		return nil, Extrema{}, err
	}
	return a, ext, nil
}

// Shapes converts a back into raw shapes: scalar shapes for height-1 layers
// and pairs otherwise. Normalize(a.Shapes()) returns a unchanged.
func (a Architecture) Shapes() []LayerShape {
	shapes := make([]LayerShape, len(a))
	for i, l := range a {
		if l.Height == 1 {
			shapes[i] = Scalar(l.Width)
		} else {
			shapes[i] = Pair(l.Width, l.Height)
		}
	}
	return shapes
}
