// Package io loads network configurations from disk and writes them back.
//
// # Overview
//
// A network lives in a directory holding up to two JSON files:
//
//	model/
//	  arch.json         required: the layer shapes
//	  activations.json  optional: opaque activation datapoints
//
// The architecture file is either a bare array of layer shapes or an object
// with an "arch" field:
//
//	[784, 300, [28, 28], 10]
//	{"arch": [784, 300, [28, 28], 10]}
//
// The activation file is a JSON array. Each element is one datapoint (for
// example the activations of every neuron for one input) and is passed
// through without being interpreted.
//
// A complete configuration can also be stored as a single document:
//
//	{"arch": [784, 300, 10], "activations": [[0.1, 0.2], [0.3, 0.4]]}
//
// # Errors
//
// A missing arch.json fails with FILE_NOT_FOUND. Malformed JSON fails with
// INVALID_INPUT. Layer shapes that are not integers or integer lists fail
// with INVALID_LAYER_SHAPE; the length and sign of list shapes are checked
// later by arch.Normalize when the network is constructed.
package io
