package cpu

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult("relu", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		reluFloat(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		reluFloat(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}
	return result
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
// Results lie in [0, 1]; float32 saturates to exactly 0 or 1 for large |x|.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result := cpu.newResult("sigmoid", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		sigmoidFloat(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		sigmoidFloat(result.AsFloat64(), x.AsFloat64())
	default:
		panic(fmt.Sprintf("sigmoid: unsupported dtype %s", x.DType()))
	}
	return result
}
