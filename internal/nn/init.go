package nn

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Initializer fills a weight tensor of the given shape.
// fanIn and fanOut are the number of inputs and outputs feeding one unit.
type Initializer func(fanIn, fanOut int, shape tensor.Shape, src rand.Source) []float32

// Option configures layer construction.
type Option func(*layerOptions)

type layerOptions struct {
	src  rand.Source
	init Initializer
}

func buildOptions(opts []Option) layerOptions {
	o := layerOptions{init: DefaultInit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSource draws initial weights from src instead of the global source.
// Layers sharing one source are initialized reproducibly in construction order.
func WithSource(src rand.Source) Option {
	return func(o *layerOptions) {
		o.src = src
	}
}

// WithInit overrides the weight initializer. Biases always use DefaultInit.
func WithInit(init Initializer) Option {
	return func(o *layerOptions) {
		o.init = init
	}
}

// Uniform draws shape.NumElements() values from U(-bound, bound).
// A nil src uses the global source.
func Uniform(bound float64, shape tensor.Shape, src rand.Source) []float32 {
	dist := distuv.Uniform{
		Min: -bound,
		Max: bound,
		Src: src,
	}

	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return data
}

// DefaultInit draws from U(-1/sqrt(fan_in), 1/sqrt(fan_in)), the usual default
// for convolution and dense layers.
func DefaultInit(fanIn, _ int, shape tensor.Shape, src rand.Source) []float32 {
	return Uniform(1/math.Sqrt(float64(fanIn)), shape, src)
}

// Xavier (Glorot) initialization.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) []float32 {
	return Uniform(math.Sqrt(6.0/float64(fanIn+fanOut)), shape, src)
}

// newInitialized wraps initializer output into a tensor on backend.
func newInitialized[B tensor.Backend](data []float32, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	t, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		panic(err)
	}
	return t
}
