package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/netblend/netblend/pkg/pipeline"
)

// renderOpts holds the render-only command-line flags.
type renderOpts struct {
	output  string // output directory (default: the input directory)
	name    string // artifact file name stem
	formats string // comma-separated formats
}

// renderCommand creates the render command, which runs the whole pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro    renderOpts
		flags layoutFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render <dir>",
		Short: "Lay out a network and write rendered artifacts",
		Long: `Lay out a network and write rendered artifacts.

Formats:
  json         the scene (same as 'layout')
  stl          binary STL mesh with one sphere per neuron
  mesh.json    the same mesh as flat vertex/normal/index arrays
  png, svg     2D scatter preview (--projection side or front)
  dot          Graphviz source of the architecture
  diagram.svg  the architecture diagram rendered by Graphviz

Artifacts are written as <output>/<name>.<format>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = args[0]
			opts.Logger = c.Logger
			opts.Formats = pipeline.ParseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, ro, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output directory (default: <dir>)")
	cmd.Flags().StringVar(&ro.name, "name", pipeline.DefaultOutputBase, "artifact file name stem")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s), comma-separated (default json)")
	cmd.Flags().StringVar(&opts.Projection, "projection", "", "preview projection: side (default), front")
	cmd.Flags().IntVar(&opts.MeshCells, "mesh-cells", 0, fmt.Sprintf("sphere tessellation resolution (default %d)", pipeline.DefaultMeshCells))
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include neuron counts in diagrams")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent mesh workers (0 or 1 places sequentially)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	flags.register(cmd)

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro renderOpts, noCache bool) error {
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

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	dir := ro.output
	if dir == "" {
		dir = opts.Dir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	for _, format := range pipeline.AllFormats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, pipeline.FileName(ro.name, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Wrote %d artifacts", len(written)))

	printSuccess("Render complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.LayerCount, result.Stats.NeuronCount, result.CacheInfo.RenderHit)

	return nil
}
