package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	out := conv.Add(bias.Reshape(1, 32, 1, 1)) // [N, 32, H, W]
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements. A single -1 entry is
// inferred from the remaining dimensions.
//
// Example:
//
//	flat := features.Reshape(batch, -1)
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	shape := Shape(append([]int(nil), newShape...))
	known, infer := 1, -1
	for i, d := range shape {
		if d == -1 {
			if infer >= 0 {
				panic("reshape: only one dimension can be inferred")
			}
			infer = i
			continue
		}
		known *= d
	}
	if infer >= 0 && known > 0 {
		shape[infer] = t.NumElements() / known
	}
	return New[T, B](t.backend.Reshape(t.raw, shape), t.backend)
}

// Transpose permutes the tensor's dimensions.
// If axes is empty, all dimensions are reversed.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// T is a shortcut for 2D transpose.
// Panics if the tensor is not 2D.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// ReLU applies max(0, x) element-wise.
func (t *Tensor[T, B]) ReLU() *Tensor[T, B] {
	return New[T, B](t.backend.ReLU(t.raw), t.backend)
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
func (t *Tensor[T, B]) Sigmoid() *Tensor[T, B] {
	return New[T, B](t.backend.Sigmoid(t.raw), t.backend)
}

// UpsampleNearest2D repeats every pixel of a [N, C, H, W] tensor scaleH
// times vertically and scaleW times horizontally.
func (t *Tensor[T, B]) UpsampleNearest2D(scaleH, scaleW int) *Tensor[T, B] {
	return New[T, B](t.backend.UpsampleNearest2D(t.raw, scaleH, scaleW), t.backend)
}

// Pad2D zero-pads the two spatial dimensions of a [N, C, H, W] tensor.
//
// Example:
//
//	x.Pad2D(0, 1, 0, 1) // one extra column on the right, one extra row at the bottom
func (t *Tensor[T, B]) Pad2D(left, right, top, bottom int) *Tensor[T, B] {
	return New[T, B](t.backend.Pad2D(t.raw, left, right, top, bottom), t.backend)
}
