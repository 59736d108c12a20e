// Package nn implements the neural network layers the StegaStamp networks are
// assembled from.
//
// This package provides:
//   - Module interface: Base interface for all layers
//   - Parameter: Named weight and bias tensors
//   - Linear, Conv2D: Learned layers
//   - ReLU, Sigmoid, Identity: Activations
//   - Upsample, ZeroPad2D, Flatten: Parameter-free reshaping layers
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build larger networks:
//
//	block := nn.NewSequential[B](
//	    nn.NewConv2D(6, 32, 3, 3, 1, 1, true, backend),
//	    nn.NewReLU[B](),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	// Parameter-free modules return an empty slice.
	Parameters() []*Parameter[B]
}

// NumParameters counts the scalar values held by params.
func NumParameters[B tensor.Backend](params []*Parameter[B]) int {
	total := 0
	for _, p := range params {
		total += p.NumElements()
	}
	return total
}
