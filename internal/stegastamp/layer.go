package stegastamp

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Layer is a named sub-module of a network, listed in forward order.
type Layer[B tensor.Backend] struct {
	Name   string
	Module nn.Module[B]
}

// LayerSummary describes one layer for printing.
type LayerSummary struct {
	Name       string
	Module     string
	Parameters int
}

func collectParameters[B tensor.Backend](layers []Layer[B]) []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, l := range layers {
		params = append(params, l.Module.Parameters()...)
	}
	return params
}

func summarize[B tensor.Backend](prefix string, layers []Layer[B]) []LayerSummary {
	out := make([]LayerSummary, 0, len(layers))
	for _, l := range layers {
		out = append(out, LayerSummary{
			Name:       prefix + l.Name,
			Module:     fmt.Sprint(l.Module),
			Parameters: nn.NumParameters(l.Module.Parameters()),
		})
	}
	return out
}

// upStage builds nearest 2x upsample, right/bottom zero pad and a 2x2 valid
// convolution, which together exactly double the spatial size.
func upStage[B tensor.Backend](in, out int, backend B, opts ...nn.Option) *nn.Sequential[B] {
	return nn.NewSequential[B](
		nn.NewUpsample[B](2),
		nn.NewZeroPad2D[B](0, 1, 0, 1),
		nn.NewConv2D(in, out, 2, 2, 1, 0, true, backend, opts...),
		nn.NewReLU[B](),
	)
}

// conv3x3 builds a 3x3 convolution with padding 1.
func conv3x3[B tensor.Backend](in, out, stride int, backend B, opts ...nn.Option) *nn.Conv2D[B] {
	return nn.NewConv2D(in, out, 3, 3, stride, 1, true, backend, opts...)
}

// checkImage panics unless x is [batch, channels, resolution, resolution].
func checkImage[B tensor.Backend](op string, x *tensor.Tensor[float32, B], cfg Config) {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D image [N,C,H,W], got shape %v", op, shape))
	}
	if shape[1] != cfg.ImageChannels || shape[2] != cfg.Resolution || shape[3] != cfg.Resolution {
		panic(fmt.Sprintf("%s: expected image [N,%d,%d,%d], got shape %v",
			op, cfg.ImageChannels, cfg.Resolution, cfg.Resolution, shape))
	}
}
