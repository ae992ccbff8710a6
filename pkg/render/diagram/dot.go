package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the neuron count to every layer label.
	Detailed bool
	// Title is drawn above the diagram when set.
	Title string
}

// ToDOT converts an architecture to Graphviz DOT source.
//
// The widest and the tallest layers are filled grey, since they are the
// reference the other layers are centered on.
func ToDOT(a arch.Architecture, opts Options) string {
	ext := a.Extrema()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for i, l := range a {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(i, l, opts.Detailed))}
		if l.Width == ext.WidestLayer || l.Height == ext.TallestLayer {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(a); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(i-1), nodeID(i))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "layer" + strconv.Itoa(i) }

func fmtLabel(i int, l arch.Layer, detailed bool) string {
	label := fmt.Sprintf("%d: %s", i, l)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%d neurons", label, l.Size())
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render diagram")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render is ToDOT followed by RenderSVG.
func Render(ctx context.Context, a arch.Architecture, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(a, opts))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg element with one whose
// viewBox starts at the origin, so the image scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
