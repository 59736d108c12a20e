package tensor

// Backend defines the compute primitives the networks are expressed in.
// Backends handle the actual computation for tensor operations and panic with
// an "<op>: <details>" message when operands have incompatible shapes.
//
// Implementations:
//   - CPU: pure Go with gonum BLAS for matrix products (internal/backend/cpu)
type Backend interface {
	// Add performs element-wise addition with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D matrices: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D convolves [N, C_in, H, W] with [C_out, C_in, K_h, K_w] using a
	// symmetric zero padding.
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Activation functions
	ReLU(x *RawTensor) *RawTensor    // max(0, x)
	Sigmoid(x *RawTensor) *RawTensor // 1 / (1 + exp(-x))

	// Spatial resampling on [N, C, H, W] tensors
	UpsampleNearest2D(x *RawTensor, scaleH, scaleW int) *RawTensor
	Pad2D(x *RawTensor, left, right, top, bottom int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
