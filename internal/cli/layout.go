package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/netblend/netblend/pkg/pipeline"
	"github.com/netblend/netblend/pkg/scene"
)

// layoutCommand creates the layout command for computing neuron positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <dir>",
		Short: "Compute the 3D scene of a network",
		Long: `Compute the 3D scene of a network.

The directory must contain arch.json, a JSON array of layer shapes such as
[784, [28, 28], 10]. An optional activations.json is carried into the scene
untouched. The scene is written to <dir>/scene.json unless -o is given and
can be turned into meshes and previews with 'render'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Dir: args[0], Logger: c.Logger}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dir>/scene.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the network, computes the scene, and writes it.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg.Apply(&opts)

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	n, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Dir, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d neurons...", n.NeuronCount()))
	spinner.Start()

	s, cacheHit, err := runner.ComputeSceneWithCacheInfo(ctx, n, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = filepath.Join(opts.Dir, pipeline.FileName("", pipeline.FormatJSON))
	}
	if err := scene.WriteFile(s, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(s.Layers), len(s.Neurons), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+opts.Dir+" -f stl,png")

	return nil
}
