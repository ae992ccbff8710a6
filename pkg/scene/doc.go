// Package scene provides the serialized form of a computed neuron layout.
//
// A [Scene] is what the pipeline caches and what every render sink consumes.
// It records the architecture, the parameters the layout was computed with,
// and every neuron position in traversal order, so a sink can draw the
// network without recomputing anything:
//
//	{
//	  "layers":   [{"width": 4, "height": 1}, {"width": 3, "height": 1}],
//	  "extrema":  {"widest_layer": 4, "tallest_layer": 1},
//	  "scale":    {"x": 0.75, "y": 0.05, "z": 0.05},
//	  "radius":   0.015,
//	  "origin":   {"x": 0, "y": 0, "z": 0},
//	  "centered": true,
//	  "neurons":  [{"index": 0, "layer": 0, "column": 0, "row": 0, "x": 0, "y": 0, "z": 0}, ...],
//	  "bounds":   {"min": {...}, "max": {...}}
//	}
//
// Use [FromNetwork] to build a scene, [Marshal]/[WriteFile] to store it and
// [Unmarshal]/[ReadFile] to load it back. Decoding validates the scene: the
// neuron list must match the architecture one-to-one.
//
// [Scene.Replay] feeds the stored positions to a [layout.PlaceFunc], which is
// how the mesh sink turns a cached scene into geometry.
package scene
