package layout

import (
	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
)

// Centerer computes per-layer offsets that center a layer on the widest and
// tallest layer of the network. It is a pure function of its fields.
type Centerer struct {
	Extrema arch.Extrema
	Scale   Scale
}

// extreme returns the centering reference for axis a.
func (c Centerer) extreme(a Axis) (int, error) {
	switch a {
	case AxisY:
		return c.Extrema.WidestLayer, nil
	case AxisZ:
		return c.Extrema.TallestLayer, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidAxis, "cannot center along axis %s", a)
	}
}

// Offset returns the starting offset along axis a for a layer that spans
// length neurons on that axis. Only [AxisY] and [AxisZ] can be centered;
// any other axis fails with INVALID_AXIS.
//
// The result is never negative: length must not exceed the network extreme
// for the axis, which always holds for extrema computed from the same
// architecture.
func (c Centerer) Offset(length int, a Axis) (float64, error) {
	ext, err := c.extreme(a)
	if err != nil {
		return 0, err
	}
	if length <= 0 || length > ext {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"length %d along axis %s is outside 1..%d", length, a, ext)
	}
	padding := float64(ext-length) * c.Scale.Of(a)
	return padding / 2, nil
}

// Offset2D returns the Y and Z offsets for l. It is exactly
// (Offset(l.Width, AxisY), Offset(l.Height, AxisZ)).
func (c Centerer) Offset2D(l arch.Layer) (y, z float64, err error) {
	if y, err = c.Offset(l.Width, AxisY); err != nil {
		return 0, 0, err
	}
	if z, err = c.Offset(l.Height, AxisZ); err != nil {
		return 0, 0, err
	}
	return y, z, nil
}
