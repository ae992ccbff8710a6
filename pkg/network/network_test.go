package network

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
)

func recorder() (layout.PlaceFunc, *[]r3.Vec) {
	var calls []r3.Vec
	return func(radius float64, at r3.Vec) (layout.Handle, error) {
		calls = append(calls, at)
		return len(calls) - 1, nil
	}, &calls
}

func TestNewDefaults(t *testing.T) {
	n, err := New(Config{Arch: []arch.LayerShape{arch.Scalar(784), arch.Pair(28, 28), arch.Scalar(10)}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if n.Scale() != layout.DefaultScale {
		t.Errorf("Scale() = %+v", n.Scale())
	}
	if n.Radius() != layout.DefaultRadius {
		t.Errorf("Radius() = %v", n.Radius())
	}
	if n.Extrema() != (arch.Extrema{WidestLayer: 784, TallestLayer: 28}) {
		t.Errorf("Extrema() = %+v", n.Extrema())
	}
	if n.NeuronCount() != 784+784+10 {
		t.Errorf("NeuronCount() = %d", n.NeuronCount())
	}
	if n.Neurons() != nil {
		t.Errorf("Neurons() before layout = %v", n.Neurons())
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		opts []Option
		code errors.Code
	}{
		{"empty arch", Config{}, nil, errors.ErrCodeEmptyArchitecture},
		{"three dims", Config{Arch: []arch.LayerShape{arch.List(1, 2, 3)}}, nil, errors.ErrCodeInvalidLayerShape},
		{"bad scale", Config{Arch: []arch.LayerShape{arch.Scalar(1)}}, []Option{WithScale(layout.Scale{X: 1})}, errors.ErrCodeInvalidScale},
		{"bad radius", Config{Arch: []arch.LayerShape{arch.Scalar(1)}}, []Option{WithRadius(0)}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(tt.cfg, tt.opts...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if n != nil {
				t.Error("expected no Network on error")
			}
		})
	}
}

func TestConfigJSON(t *testing.T) {
	var cfg Config
	data := `{"arch": [4, [2, 2]], "activations": [[0.1, 0.9], {"frame": 1}]}`
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if diff := cmp.Diff(arch.Architecture{{4, 1}, {2, 2}}, n.Architecture()); diff != "" {
		t.Errorf("Architecture mismatch (-want +got):\n%s", diff)
	}
	if len(n.Activations()) != 2 || string(n.Activations()[1]) != `{"frame": 1}` {
		t.Errorf("Activations = %s", n.Activations())
	}
}

func TestLayoutDefaultsToCentered(t *testing.T) {
	n, err := New(Config{Arch: []arch.LayerShape{arch.Scalar(4), arch.Scalar(3)}},
		WithScale(layout.Scale{X: 1, Y: 1, Z: 1}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	place, calls := recorder()
	handles, err := n.Layout(place)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(handles) != 7 {
		t.Fatalf("len(handles) = %d", len(handles))
	}
	want := []r3.Vec{{X: 1, Y: 0.5}, {X: 1, Y: 1.5}, {X: 1, Y: 2.5}}
	if diff := cmp.Diff(want, (*calls)[4:]); diff != "" {
		t.Errorf("centered layer mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutUncentered(t *testing.T) {
	n, _ := New(Config{Arch: []arch.LayerShape{arch.Scalar(4), arch.Scalar(3)}})

	place, calls := recorder()
	_, err := n.Layout(place, Centered(false), WithLayoutScale(layout.Scale{X: 1, Y: 1, Z: 1}))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	want := []r3.Vec{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 0, Y: 3},
		{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2},
	}
	if diff := cmp.Diff(want, *calls); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if n.Scale() != layout.DefaultScale {
		t.Error("per-call scale override must not change the network scale")
	}
}

func TestLayoutReplacesNeurons(t *testing.T) {
	n, _ := New(Config{Arch: []arch.LayerShape{arch.Pair(3, 2), arch.Scalar(5)}})

	counter := 0
	place := func(radius float64, at r3.Vec) (layout.Handle, error) {
		counter++
		return fmt.Sprintf("obj-%d", counter), nil
	}

	first, err := n.Layout(place, WithOrigin(r3.Vec{X: 1, Y: 1, Z: 1}))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	second, err := n.Layout(place, WithOrigin(r3.Vec{X: 1, Y: 1, Z: 1}))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if len(first) != len(second) || len(second) != n.NeuronCount() {
		t.Fatalf("lengths %d, %d, want %d", len(first), len(second), n.NeuronCount())
	}
	if first[0] == second[0] {
		t.Error("second layout should hold new handles")
	}
	if diff := cmp.Diff(second, n.Neurons()); diff != "" {
		t.Errorf("Neurons() should be the latest handles (-want +got):\n%s", diff)
	}

	p1, _ := n.Positions(WithOrigin(r3.Vec{X: 1, Y: 1, Z: 1}))
	p2, _ := n.Positions(WithOrigin(r3.Vec{X: 1, Y: 1, Z: 1}))
	if diff := cmp.Diff(p1, p2); diff != "" {
		t.Errorf("positions differ between calls:\n%s", diff)
	}
}

func TestLayoutRadius(t *testing.T) {
	n, _ := New(Config{Arch: []arch.LayerShape{arch.Scalar(2)}}, WithRadius(0.3))

	var radii []float64
	_, err := n.Layout(func(radius float64, at r3.Vec) (layout.Handle, error) {
		radii = append(radii, radius)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if diff := cmp.Diff([]float64{0.3, 0.3}, radii); diff != "" {
		t.Errorf("radii mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutFailureKeepsPartialHandles(t *testing.T) {
	n, _ := New(Config{Arch: []arch.LayerShape{arch.Scalar(4)}})

	calls := 0
	_, err := n.Layout(func(radius float64, at r3.Vec) (layout.Handle, error) {
		calls++
		if calls == 2 {
			return nil, fmt.Errorf("boom")
		}
		return calls, nil
	})
	if !errors.Is(err, errors.ErrCodePlacementFailed) {
		t.Fatalf("error = %v, want PLACEMENT_FAILED", err)
	}
	if len(n.Neurons()) != 1 {
		t.Errorf("Neurons() = %v, want the one placed handle", n.Neurons())
	}
}
