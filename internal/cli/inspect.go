package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/io"
	"github.com/netblend/netblend/pkg/network"
)

// inspectSummary is the --json output of inspect.
type inspectSummary struct {
	Architecture string       `json:"architecture"`
	Layers       []arch.Layer `json:"layers"`
	Extrema      arch.Extrema `json:"extrema"`
	NeuronCount  int          `json:"neuron_count"`
	Activations  int          `json:"activations"`
}

// inspectCommand creates the inspect command, which summarizes a network
// without laying it out.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <dir>",
		Short: "Print the architecture, extrema and neuron count of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := io.ImportDir(args[0])
			if err != nil {
				return err
			}
			n, err := network.New(cfg)
			if err != nil {
				return err
			}

			summary := inspectSummary{
				Architecture: n.Architecture().String(),
				Layers:       n.Architecture(),
				Extrema:      n.Extrema(),
				NeuronCount:  n.NeuronCount(),
				Activations:  len(n.Activations()),
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printInspect(summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func printInspect(s inspectSummary) {
	fmt.Println(StyleTitle.Render(s.Architecture))
	printNewline()
	printKeyValue("Layers", strconv.Itoa(len(s.Layers)))
	printKeyValue("Neurons", strconv.Itoa(s.NeuronCount))
	printKeyValue("Widest", strconv.Itoa(s.Extrema.WidestLayer))
	printKeyValue("Tallest", strconv.Itoa(s.Extrema.TallestLayer))
	if s.Activations > 0 {
		printKeyValue("Activations", strconv.Itoa(s.Activations))
	}
	printNewline()
	for i, l := range s.Layers {
		extreme := l.Width == s.Extrema.WidestLayer || l.Height == s.Extrema.TallestLayer
		printLayer(i, l.String(), l.Size(), extreme)
	}
}
