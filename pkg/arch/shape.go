package arch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/netblend/netblend/pkg/errors"
)

// LayerShape is a layer as supplied by configuration: either a scalar width
// or a list of dimensions. List shapes are validated by [Normalize], so a
// LayerShape may hold an invalid list until then.
type LayerShape struct {
	dims []int
	list bool
}

// Scalar returns the shape of a 1-D layer with the given width.
func Scalar(width int) LayerShape {
	return LayerShape{dims: []int{width}}
}

// Pair returns the shape of a 2-D layer.
func Pair(width, height int) LayerShape {
	return LayerShape{dims: []int{width, height}, list: true}
}

// List returns a raw list shape. Lists of length 1 behave like [Scalar],
// lists of length 2 like [Pair]; any other length is rejected by [Normalize].
func List(dims ...int) LayerShape {
	return LayerShape{dims: append([]int(nil), dims...), list: true}
}

// IsList reports whether the shape was given in list form.
func (s LayerShape) IsList() bool { return s.list }

// Dims returns a copy of the raw dimensions.
func (s LayerShape) Dims() []int { return append([]int(nil), s.dims...) }

// String formats the shape the way it appears in configuration.
func (s LayerShape) String() string {
	if !s.list && len(s.dims) == 1 {
		return strconv.Itoa(s.dims[0])
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range s.dims {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.Itoa(d))
	}
	buf.WriteByte(']')
	return buf.String()
}

// resolve converts the raw shape into a canonical layer.
func (s LayerShape) resolve() (Layer, error) {
	if !s.list && len(s.dims) != 1 {
		return Layer{}, errors.New(errors.ErrCodeInvalidLayerShape, "shape has no width")
	}

	var l Layer
	switch len(s.dims) {
	case 1:
		l = Layer{Width: s.dims[0], Height: 1}
	case 2:
		l = Layer{Width: s.dims[0], Height: s.dims[1]}
	default:
		return Layer{}, errors.New(errors.ErrCodeInvalidLayerShape,
			"shape %s must have 1 or 2 dimensions, got %d", s, len(s.dims))
	}

	if l.Width <= 0 {
		return Layer{}, errors.New(errors.ErrCodeInvalidLayerShape, "shape %s: width must be a positive integer", s)
	}
	if l.Height <= 0 {
		return Layer{}, errors.New(errors.ErrCodeInvalidLayerShape, "shape %s: height must be a positive integer", s)
	}
	return l, nil
}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON encodes scalar shapes as numbers and list shapes as arrays.
func (s LayerShape) MarshalJSON() ([]byte, error) {
	if !s.list && len(s.dims) == 1 {
		return json.Marshal(s.dims[0])
	}
	dims := s.dims
	if dims == nil {
		dims = []int{}
	}
	return json.Marshal(dims)
}

// UnmarshalJSON decodes a number or an array of numbers.
// See [ParseShape] for the accepted forms.
func (s *LayerShape) UnmarshalJSON(data []byte) error {
	shape, err := ParseShape(data)
	if err != nil {
		return err
	}
	*s = shape
	return nil
}

// ParseShape decodes a single raw layer shape. Numbers become scalar shapes
// and arrays of numbers become list shapes. Every number must be an integer
// literal. The list length is not checked here; [Normalize] does that.
func ParseShape(data []byte) (LayerShape, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return LayerShape{}, errors.New(errors.ErrCodeInvalidLayerShape, "empty layer shape")
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return LayerShape{}, errors.Wrap(errors.ErrCodeInvalidLayerShape, err, "decode list shape")
		}
		dims := make([]int, len(raw))
		for i, r := range raw {
			n, err := parseInt(r)
			if err != nil {
				return LayerShape{}, errors.Wrap(errors.ErrCodeInvalidLayerShape, err, "dimension %d", i)
			}
			dims[i] = n
		}
		return LayerShape{dims: dims, list: true}, nil
	default:
		n, err := parseInt(data)
		if err != nil {
			return LayerShape{}, errors.Wrap(errors.ErrCodeInvalidLayerShape, err,
				"layer shape must be an integer or a list of integers")
		}
		return Scalar(n), nil
	}
}

// ParseShapes decodes a JSON array of raw layer shapes.
func ParseShapes(data []byte) ([]LayerShape, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "architecture must be a JSON array")
	}
	shapes := make([]LayerShape, len(raw))
	for i, r := range raw {
		s, err := ParseShape(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayerShape, err, "layer %d", i)
		}
		shapes[i] = s
	}
	return shapes, nil
}

// parseInt accepts only integer number literals.
func parseInt(data []byte) (int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !(data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		return 0, fmt.Errorf("%s is not a number", data)
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer", data)
	}
	return n, nil
}
