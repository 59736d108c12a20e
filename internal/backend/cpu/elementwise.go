package cpu

import (
	"math"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

func addFloat[T float](dst, a, b []T, aShape, bShape, outShape tensor.Shape, broadcast bool) {
	if !broadcast {
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	for i := range dst {
		dst[i] = a[flatIndex(i, outStrides, aStrides)] + b[flatIndex(i, outStrides, bStrides)]
	}
}

// broadcastStrides computes strides for reading inShape as if it had outShape.
// Broadcast and left-padded dimensions get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	orig := inShape.ComputeStrides()

	for i := range outShape {
		inIdx := i - offset
		if inIdx < 0 || inShape[inIdx] == 1 {
			continue
		}
		strides[i] = orig[inIdx]
	}
	return strides
}

// flatIndex maps an output flat index to the source flat index.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i, s := range outStrides {
		coord := outIdx / s
		outIdx %= s
		idx += coord * inStrides[i]
	}
	return idx
}

func transposeFloat[T float](dst, src []T, shape, newShape tensor.Shape, axes []int) {
	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()

	// permuted[i] is the source stride walked by destination axis i.
	permuted := make([]int, len(axes))
	for i, ax := range axes {
		permuted[i] = srcStrides[ax]
	}
	for i := range dst {
		dst[i] = src[flatIndex(i, dstStrides, permuted)]
	}
}

func reluFloat[T float](dst, src []T) {
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		} else {
			dst[i] = 0
		}
	}
}

func sigmoidFloat[T float](dst, src []T) {
	for i, v := range src {
		// Split on sign so exp never overflows.
		x := float64(v)
		if x >= 0 {
			dst[i] = T(1 / (1 + math.Exp(-x)))
		} else {
			e := math.Exp(x)
			dst[i] = T(e / (1 + e))
		}
	}
}
