// Package mesh turns a neuron layout into triangle geometry.
//
// A [Builder] is a [layout.PlaceFunc]: every call tessellates one sphere
// through github.com/deadsy/sdfx, moves it to the neuron center and appends
// it to a single flat [Mesh]. The handle returned for each neuron is an
// [*Object] carrying a UUID and the vertex range it owns, so callers can
// address individual neurons after the fact.
//
//	b := mesh.NewBuilder(mesh.WithCells(16))
//	if _, err := n.Layout(b.Place); err != nil {
//	    return err
//	}
//	err := mesh.WriteSTL(w, b.Mesh())
//
// The sphere is meshed once, on a unit radius, and scaled for every
// placement. [Render] does the same for a stored [scene.Scene], and
// [RenderConcurrent] tessellates on several goroutines while keeping the
// object order of [Render].
//
// # Output Formats
//
//   - [WriteSTL]: binary STL, one facet per triangle
//   - [WriteJSON]: the flat vertex/normal/index arrays plus the object table
package mesh
