package tensor

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation
// dimension. Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	// U-Net skip connection: [N, 128, 4, 4] ++ [N, 128, 4, 4] → [N, 256, 4, 4]
//	merged := tensor.Cat([]*tensor.Tensor[float32, B]{skip, up}, 1)
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	if len(tensors) == 1 {
		return tensors[0].Clone()
	}

	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}

	backend := tensors[0].backend
	return New[T, B](backend.Cat(raws, dim), backend)
}
