// Package layout computes 3D neuron positions for a normalized architecture.
//
// # Overview
//
// Layers are stacked along the primary axis (X). Inside a layer, neurons form
// a grid spanned by the width axis (Y, one step per column) and the height
// axis (Z, one step per row). A 1-D layer is a grid with a single row.
//
// # Traversal Order
//
// [Walk] visits neurons in (layer, column, row) order. This order is part of
// the contract: [Place] invokes the placement callback in exactly this order
// and returns handles in the same order. For architecture [4, 3] un-centered
// at the origin with unit scale the positions are:
//
//	(0,0,0) (0,1,0) (0,2,0) (0,3,0) (1,0,0) (1,1,0) (1,2,0)
//
// # Centering
//
// With [Options.Centered] set, each layer is shifted along Y and Z so that it
// is symmetric about the widest and tallest layer of the network. The shift
// is computed per layer by [Centerer.Offset2D]:
//
//	offset = (extreme - length) * step / 2
//
// The Y offset is applied once per layer. The Z offset is reapplied at the
// start of every column, because the Z coordinate restarts for each column.
// Without centering every layer starts at the origin's Y and every column at
// the origin's Z, so nothing drifts between layers.
//
// # Placement
//
// [Place] runs the traversal and calls a [PlaceFunc] for every neuron,
// strictly sequentially. A callback error aborts the layout. Neurons placed
// before the failure are not removed; the handles placed so far are returned
// with the error so the caller can clean them up.
//
// [PlaceConcurrent] dispatches an already materialized list of placements
// (see [Positions]) concurrently. Only use it with callbacks that are safe
// for concurrent use.
package layout
