package cpu

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	// [N, 32, 32, 32] ++ [N, 32, 32, 32] ++ [N, 6, 32, 32] → [N, 70, 32, 32]
//	merged := backend.Cat([]*tensor.RawTensor{conv1, up9, inputs}, 1)
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	dim, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := cpu.newResult("cat", outShape, dtype)

	// Everything before dim is an "outer" loop; everything from dim on is a
	// contiguous block per input, so bytes can be copied block by block.
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := dtype.Size()
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	dst := result.Data()
	pos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			copy(dst[pos:pos+block], t.Data()[o*block:(o+1)*block])
			pos += block
		}
	}
	return result
}
