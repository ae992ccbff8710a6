// Package render groups the output sinks for computed neuron layouts.
//
// # Overview
//
// Every sink consumes a [scene.Scene] (or, for diagrams, the architecture
// alone) and produces bytes:
//
//   - [mesh]: one sphere per neuron, as binary STL or a flat JSON mesh
//   - [preview]: a 2D scatter projection as PNG or SVG
//   - [diagram]: the layer graph as Graphviz DOT or SVG
//
// The scene JSON itself is the fourth output and lives in package scene.
// The pipeline package maps format names to these sinks.
//
// [scene.Scene]: github.com/netblend/netblend/pkg/scene.Scene
// [mesh]: github.com/netblend/netblend/pkg/render/mesh
// [preview]: github.com/netblend/netblend/pkg/render/preview
// [diagram]: github.com/netblend/netblend/pkg/render/diagram
package render
