package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netblend/netblend/pkg/errors"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/pipeline"
)

// layoutFlags holds the flags shared by every command that lays out a network.
type layoutFlags struct {
	origin     string  // "x,y,z"
	scale      string  // "x,y,z"
	radius     float64 // neuron sphere radius
	centered   bool    // center layers on the widest/tallest layer
	maxNeurons int
	noCache    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.origin, "origin", "", "layout origin as x,y,z (default 0,0,0)")
	cmd.Flags().StringVar(&f.scale, "scale", "", fmt.Sprintf("spacing per axis as x,y,z (default %g,%g,%g)",
		layout.DefaultScale.X, layout.DefaultScale.Y, layout.DefaultScale.Z))
	cmd.Flags().Float64Var(&f.radius, "radius", 0, fmt.Sprintf("neuron radius (default %g)", layout.DefaultRadius))
	cmd.Flags().BoolVar(&f.centered, "centered", true, "center layers on the widest and tallest layer")
	cmd.Flags().IntVar(&f.maxNeurons, "max-neurons", 0,
		fmt.Sprintf("refuse networks with more neurons (default %d, negative disables)", pipeline.DefaultMaxNeurons))
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply copies flags the user set into opts. Unset flags are left for the
// config file and the pipeline defaults.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	if f.origin != "" {
		v, err := parseVec3(f.origin)
		if err != nil {
			return fmt.Errorf("--origin: %w", err)
		}
		opts.Origin = v
	}
	if f.scale != "" {
		v, err := parseVec3(f.scale)
		if err != nil {
			return fmt.Errorf("--scale: %w", err)
		}
		opts.Scale = &layout.Scale{X: v[0], Y: v[1], Z: v[2]}
	}
	if cmd.Flags().Changed("radius") {
		if !(f.radius > 0) {
			return errors.New(errors.ErrCodeInvalidInput, "--radius must be positive, got %v", f.radius)
		}
		opts.Radius = f.radius
	}
	if cmd.Flags().Changed("centered") {
		centered := f.centered
		opts.Centered = &centered
	}
	if cmd.Flags().Changed("max-neurons") {
		opts.MaxNeurons = f.maxNeurons
	}
	return nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) ([3]float64, error) {
	var v [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, errors.New(errors.ErrCodeInvalidInput, "want x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, errors.Wrap(errors.ErrCodeInvalidInput, err, "component %d of %q", i, s)
		}
		v[i] = f
	}
	return v, nil
}
