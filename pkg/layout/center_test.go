package layout

import (
	"testing"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/errors"
)

func TestCentererOffset(t *testing.T) {
	c := Centerer{
		Extrema: arch.Extrema{WidestLayer: 4, TallestLayer: 6},
		Scale:   Scale{X: 1, Y: 0.5, Z: 2},
	}

	tests := []struct {
		name   string
		length int
		axis   Axis
		want   float64
	}{
		{"widest layer", 4, AxisY, 0},
		{"narrower by one", 3, AxisY, 0.25},
		{"single column", 1, AxisY, 0.75},
		{"tallest layer", 6, AxisZ, 0},
		{"single row", 1, AxisZ, 5},
		{"half height", 3, AxisZ, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Offset(tt.length, tt.axis)
			if err != nil {
				t.Fatalf("Offset() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Offset(%d, %s) = %v, want %v", tt.length, tt.axis, got, tt.want)
			}
			if got < 0 {
				t.Errorf("Offset(%d, %s) is negative", tt.length, tt.axis)
			}
		})
	}
}

func TestCentererOffsetInvalidAxis(t *testing.T) {
	c := Centerer{Extrema: arch.Extrema{WidestLayer: 4, TallestLayer: 1}, Scale: unit}

	for _, axis := range []Axis{AxisX, Axis(7)} {
		if _, err := c.Offset(1, axis); !errors.Is(err, errors.ErrCodeInvalidAxis) {
			t.Errorf("Offset(1, %s) error = %v, want INVALID_AXIS", axis, err)
		}
	}
}

func TestCentererOffsetOutOfRange(t *testing.T) {
	c := Centerer{Extrema: arch.Extrema{WidestLayer: 4, TallestLayer: 1}, Scale: unit}

	for _, length := range []int{0, -1, 5} {
		if _, err := c.Offset(length, AxisY); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Offset(%d, y) error = %v, want INVALID_INPUT", length, err)
		}
	}
}

func TestCentererOffset2DIsComposition(t *testing.T) {
	a, ext := mustNormalize(t, arch.Pair(9, 2), arch.Pair(4, 7), arch.Scalar(3), arch.Pair(1, 1))
	c := Centerer{Extrema: ext, Scale: DefaultScale}

	for _, l := range a {
		y, z, err := c.Offset2D(l)
		if err != nil {
			t.Fatalf("Offset2D(%v) error = %v", l, err)
		}
		wantY, _ := c.Offset(l.Width, AxisY)
		wantZ, _ := c.Offset(l.Height, AxisZ)
		if y != wantY || z != wantZ {
			t.Errorf("Offset2D(%v) = (%v, %v), want (%v, %v)", l, y, z, wantY, wantZ)
		}
	}
}

func TestCentererOneDimensionalLayer(t *testing.T) {
	// With a 2-D layer present, a 1-D layer is centered on the height axis too.
	c := Centerer{Extrema: arch.Extrema{WidestLayer: 5, TallestLayer: 3}, Scale: unit}

	y, z, err := c.Offset2D(arch.Layer{Width: 5, Height: 1})
	if err != nil {
		t.Fatalf("Offset2D error = %v", err)
	}
	if y != 0 || z != 1 {
		t.Errorf("Offset2D = (%v, %v), want (0, 1)", y, z)
	}
}

func TestScaleValidate(t *testing.T) {
	if err := DefaultScale.Validate(); err != nil {
		t.Errorf("DefaultScale.Validate() = %v", err)
	}
	if err := (Scale{}).Validate(); !errors.Is(err, errors.ErrCodeInvalidScale) {
		t.Errorf("zero Scale: error = %v, want INVALID_SCALE", err)
	}
	if DefaultScale.Of(AxisX) != 0.75 || DefaultScale.Of(AxisY) != 0.05 || DefaultScale.Of(AxisZ) != 0.05 {
		t.Errorf("DefaultScale components = %+v", DefaultScale)
	}
}
