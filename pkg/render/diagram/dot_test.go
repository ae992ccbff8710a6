package diagram

import (
	"context"
	"strings"
	"testing"

	"github.com/netblend/netblend/pkg/arch"
)

func mustArch(t *testing.T, shapes ...arch.LayerShape) arch.Architecture {
	t.Helper()
	a, _, err := arch.Normalize(shapes)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestToDOT(t *testing.T) {
	a := mustArch(t, arch.Scalar(784), arch.Pair(28, 28), arch.Scalar(10))

	tests := []struct {
		name     string
		opts     Options
		contains []string
		excludes []string
	}{
		{
			name: "basic",
			contains: []string{
				"digraph G {",
				"rankdir=LR;",
				`"layer0" [label="0: 784", fillcolor=lightgrey];`,
				`"layer1" [label="1: 28x28", fillcolor=lightgrey];`,
				`"layer2" [label="2: 10"];`,
				`"layer0" -> "layer1";`,
				`"layer1" -> "layer2";`,
			},
			excludes: []string{"neurons", "labelloc"},
		},
		{
			name:     "detailed",
			opts:     Options{Detailed: true},
			contains: []string{`label="1: 28x28\n784 neurons"`},
		},
		{
			name:     "title",
			opts:     Options{Title: "mnist"},
			contains: []string{`label="mnist";`, "labelloc=t;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(a, tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(dot, want) {
					t.Errorf("DOT missing %q:\n%s", want, dot)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(dot, bad) {
					t.Errorf("DOT should not contain %q", bad)
				}
			}
		})
	}
}

func TestToDOTSingleLayer(t *testing.T) {
	dot := ToDOT(mustArch(t, arch.Scalar(3)), Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("single layer should have no edges:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRender(t *testing.T) {
	svg, err := Render(context.Background(), mustArch(t, arch.Scalar(4), arch.Scalar(2)), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}
