// Package pkg provides the core libraries of netblend.
//
// # Overview
//
// netblend lays out the neurons of a neural network in 3D space, one sphere
// per neuron, layer by layer along X with each layer spread over Y and Z and
// centered on the widest and tallest layers. The pkg directory is organized as:
//
//  1. [arch] - layer shapes and their normalization into width x height layers
//  2. [layout] - centering math and the position engine
//  3. [network] - a validated architecture plus its layout parameters
//  4. [io] - reading architecture and activation files
//  5. [scene] - the serialized result of a layout
//  6. [render] - mesh, preview and diagram sinks
//  7. [cache], [pipeline], [observability] - orchestration and infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	arch.json (+ activations.json)
//	         ↓
//	    [io] ImportDir
//	         ↓
//	    [network] New (normalize, extrema)
//	         ↓
//	    [layout] Positions / Place
//	         ↓
//	    [scene] Scene
//	         ↓
//	    [render] STL, mesh JSON, PNG/SVG preview, DOT/SVG diagram
//
// # Quick Start
//
//	n, err := network.New(network.Config{
//	    Arch: []arch.LayerShape{arch.Scalar(784), arch.Pair(28, 28), arch.Scalar(10)},
//	})
//	if err != nil {
//	    return err
//	}
//	s, err := scene.FromNetwork(n)
//	if err != nil {
//	    return err
//	}
//	m, err := mesh.Render(s)
//	if err != nil {
//	    return err
//	}
//	return mesh.WriteSTL(w, m)
//
// For the complete pipeline with caching, use [pipeline.Runner].
package pkg
