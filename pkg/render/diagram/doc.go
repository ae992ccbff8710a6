// Package diagram renders a network architecture as a Graphviz diagram.
//
// Each layer becomes one box and consecutive layers are joined by an arrow,
// laid out left to right in traversal order:
//
//	dot := diagram.ToDOT(a, diagram.Options{Detailed: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
//
// [ToDOT] is pure and needs no Graphviz installation; the DOT source can be
// saved and processed with external tools. [RenderSVG] uses
// [github.com/goccy/go-graphviz] to render in-process.
package diagram
