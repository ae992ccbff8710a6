package scene_test

import (
	"fmt"

	"github.com/netblend/netblend/pkg/arch"
	"github.com/netblend/netblend/pkg/layout"
	"github.com/netblend/netblend/pkg/network"
	"github.com/netblend/netblend/pkg/scene"
)

func ExampleFromNetwork() {
	n, _ := network.New(network.Config{
		Arch: []arch.LayerShape{arch.Pair(2, 2), arch.Scalar(1)},
	}, network.WithScale(layout.Scale{X: 1, Y: 1, Z: 1}))

	s, _ := scene.FromNetwork(n)
	for _, nn := range s.Neurons {
		fmt.Printf("%d L%d c%d r%d (%g, %g, %g)\n", nn.Index, nn.Layer, nn.Column, nn.Row, nn.X, nn.Y, nn.Z)
	}
	// Output:
	// 0 L0 c0 r0 (0, 0, 0)
	// 1 L0 c0 r1 (0, 0, 1)
	// 2 L0 c1 r0 (0, 1, 0)
	// 3 L0 c1 r1 (0, 1, 1)
	// 4 L1 c0 r0 (1, 0.5, 0.5)
}
