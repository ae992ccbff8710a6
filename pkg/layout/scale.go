package layout

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/errors"
)

// Axis identifies one of the three spatial axes.
type Axis int

const (
	// AxisX is the primary axis along which layers are stacked.
	AxisX Axis = iota
	// AxisY is the width axis, one step per column.
	AxisY
	// AxisZ is the height axis, one step per row.
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

const (
	// DefaultRadius is the physical radius of a neuron primitive.
	DefaultRadius = 0.015
)

// DefaultScale spaces layers 0.75 apart and neurons 0.05 apart inside a layer.
var DefaultScale = Scale{X: 0.75, Y: 0.05, Z: 0.05}

// Scale holds the step between neighbours along each axis.
type Scale struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	Z float64 `json:"z" toml:"z"`
}

// Of returns the step along axis a.
func (s Scale) Of(a Axis) float64 {
	switch a {
	case AxisX:
		return s.X
	case AxisY:
		return s.Y
	case AxisZ:
		return s.Z
	}
	return 0
}

// Vec returns the scale as a vector.
func (s Scale) Vec() r3.Vec { return r3.Vec{X: s.X, Y: s.Y, Z: s.Z} }

// Validate checks that every component is a positive finite number.
func (s Scale) Validate() error {
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		v := s.Of(a)
		if !(v > 0) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidScale, "scale %s must be positive, got %v", a, v)
		}
	}
	return nil
}

// ScaleFromVec converts a vector into a Scale.
func ScaleFromVec(v r3.Vec) Scale { return Scale{X: v.X, Y: v.Y, Z: v.Z} }
