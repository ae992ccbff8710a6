// Package arch validates and normalizes neural network architectures.
//
// # Overview
//
// An architecture is supplied as an ordered list of layer shapes. Each shape
// is either a scalar width (a 1-D layer) or a list of one or two integers
// (a 2-D layer given as width and height):
//
//	[784, 300, [28, 28], [10]]
//
// [Normalize] resolves every raw [LayerShape] into a canonical [Layer] with
// an explicit height (1 for scalar layers) and computes the network-wide
// [Extrema] used to center layers against the widest and tallest layer.
//
// # Validation
//
// Normalization is all-or-nothing. Any invalid entry fails the whole call
// and no partial [Architecture] is returned:
//
//   - An empty list fails with EMPTY_ARCHITECTURE.
//   - A list shape of length 0 or more than 2 fails with INVALID_LAYER_SHAPE.
//   - A non-positive width or height fails with INVALID_LAYER_SHAPE.
//
// When decoding JSON, values that are neither a number nor an array (strings,
// booleans, objects, null, nested arrays) and non-integral numbers fail with
// INVALID_LAYER_SHAPE as well.
//
// # Usage
//
//	shapes, err := arch.ParseShapes([]byte(`[784, [28, 28], 10]`))
//	if err != nil {
//	    return err
//	}
//	a, ext, err := arch.Normalize(shapes)
//	// a   = [{784 1} {28 28} {10 1}]
//	// ext = {WidestLayer: 784, TallestLayer: 28}
package arch
