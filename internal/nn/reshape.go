package nn

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Upsample enlarges [N, C, H, W] inputs by an integer factor with
// nearest-neighbor sampling.
type Upsample[B tensor.Backend] struct {
	scale int
}

// NewUpsample creates a nearest-neighbor upsampling module.
func NewUpsample[B tensor.Backend](scale int) *Upsample[B] {
	if scale <= 0 {
		panic(fmt.Sprintf("upsample: invalid scale factor %d", scale))
	}
	return &Upsample[B]{scale: scale}
}

// Forward returns [N, C, H*scale, W*scale].
func (u *Upsample[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if u.scale == 1 {
		return input
	}
	return input.UpsampleNearest2D(u.scale, u.scale)
}

// Parameters returns an empty slice.
func (u *Upsample[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// Scale returns the upsampling factor.
func (u *Upsample[B]) Scale() int {
	return u.scale
}

// String returns a string representation of the module.
func (u *Upsample[B]) String() string {
	return fmt.Sprintf("Upsample(scale_factor=%d, mode=nearest)", u.scale)
}

// ZeroPad2D pads the spatial dimensions of [N, C, H, W] inputs with zeros.
// Each side has its own amount.
//
// Example:
//
//	pad := nn.NewZeroPad2D[B](0, 1, 0, 1) // [N, C, H, W] -> [N, C, H+1, W+1]
type ZeroPad2D[B tensor.Backend] struct {
	left, right, top, bottom int
}

// NewZeroPad2D creates a zero padding module.
func NewZeroPad2D[B tensor.Backend](left, right, top, bottom int) *ZeroPad2D[B] {
	if left < 0 || right < 0 || top < 0 || bottom < 0 {
		panic(fmt.Sprintf("zeropad2d: negative padding (%d, %d, %d, %d)", left, right, top, bottom))
	}
	return &ZeroPad2D[B]{left: left, right: right, top: top, bottom: bottom}
}

// Forward returns the padded input.
func (z *ZeroPad2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Pad2D(z.left, z.right, z.top, z.bottom)
}

// Parameters returns an empty slice.
func (z *ZeroPad2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns a string representation of the module.
func (z *ZeroPad2D[B]) String() string {
	return fmt.Sprintf("ZeroPad2d(padding=(%d, %d, %d, %d))", z.left, z.right, z.top, z.bottom)
}

// Flatten collapses every dimension after the batch dimension:
// [N, d1, d2, ...] -> [N, d1*d2*...].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a new Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward returns the flattened input.
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("flatten: expected at least 2D input, got shape %v", shape))
	}
	return input.Reshape(shape[0], -1)
}

// Parameters returns an empty slice.
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// String returns a string representation of the module.
func (f *Flatten[B]) String() string {
	return "Flatten()"
}
