package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, float32(6), x.At(1, 2))
	assert.Equal(t, "Tensor[float32][2 3] on CPU", x.String())

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{3}, backend)
	assert.Error(t, err)
}

func TestAtSet(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{1, 3, 4, 4}, backend)

	x.Set(0.5, 0, 2, 3, 1)
	assert.Equal(t, float32(0.5), x.At(0, 2, 3, 1))
	assert.Equal(t, float32(0.5), x.Data()[2*16+3*4+1])

	assert.Panics(t, func() { x.At(0, 3, 0, 0) })
	assert.Panics(t, func() { x.At(0, 0) })
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	ones := tensor.Ones[float64](tensor.Shape{2, 2}, backend)
	assert.Equal(t, []float64{1, 1, 1, 1}, ones.Data())

	full := tensor.Full[float32](tensor.Shape{3}, 0.25, backend)
	assert.Equal(t, []float32{0.25, 0.25, 0.25}, full.Data())

	r := tensor.Rand[float32](tensor.Shape{64}, backend)
	for _, v := range r.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}

	a := tensor.RandFrom[float32](tensor.Shape{16}, rand.New(rand.NewSource(3)), backend)
	b := tensor.RandFrom[float32](tensor.Shape{16}, rand.New(rand.NewSource(3)), backend)
	assert.Equal(t, a.Data(), b.Data(), "same seed, same values")

	n := tensor.Randn[float64](tensor.Shape{4097}, backend)
	var mean float64
	for _, v := range n.Data() {
		mean += v
	}
	mean /= float64(n.NumElements())
	assert.InDelta(t, 0, mean, 0.1)
}

func TestClone(t *testing.T) {
	backend := cpu.New()
	x := tensor.Full[float32](tensor.Shape{2}, 1, backend)
	y := x.Clone()
	y.Data()[0] = 5
	assert.Equal(t, float32(1), x.Data()[0])
}

func TestReshape(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2}, backend)
	require.NoError(t, err)

	flat := x.Reshape(2, -1)
	assert.Equal(t, tensor.Shape{2, 4}, flat.Shape())
	assert.Equal(t, x.Data(), flat.Data())

	assert.Panics(t, func() { x.Reshape(-1, -1) })
	assert.Panics(t, func() { x.Reshape(3, -1) })
}

func TestOps(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, -2, 3, -4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{2, -2, 3, -3}, a.Add(b).Data())
	assert.Equal(t, []float32{1, -2, 3, -4}, a.MatMul(b).Data())
	assert.Equal(t, []float32{1, 3, -2, -4}, a.T().Data())
	assert.Equal(t, []float32{1, 0, 3, 0}, a.ReLU().Data())

	sig := a.Sigmoid().Data()
	for _, v := range sig {
		assert.True(t, v > 0 && v < 1)
	}

	img := a.Reshape(1, 1, 2, 2)
	up := img.UpsampleNearest2D(2, 2)
	assert.Equal(t, tensor.Shape{1, 1, 4, 4}, up.Shape())
	assert.Equal(t, float32(-4), up.At(0, 0, 3, 3))

	padded := img.Pad2D(0, 1, 0, 1)
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, padded.Shape())
	assert.Equal(t, float32(0), padded.At(0, 0, 2, 2))
	assert.Equal(t, float32(-4), padded.At(0, 0, 1, 1))

	v, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	assert.Panics(t, func() { v.T() })
}

func TestCat(t *testing.T) {
	backend := cpu.New()

	skip := tensor.Full[float32](tensor.Shape{1, 2, 2, 2}, 1, backend)
	up := tensor.Full[float32](tensor.Shape{1, 3, 2, 2}, 2, backend)

	merged := tensor.Cat([]*tensor.Tensor[float32, *cpu.CPUBackend]{skip, up}, 1)
	assert.Equal(t, tensor.Shape{1, 5, 2, 2}, merged.Shape())
	assert.Equal(t, float32(1), merged.At(0, 1, 1, 1))
	assert.Equal(t, float32(2), merged.At(0, 2, 0, 0))

	single := tensor.Cat([]*tensor.Tensor[float32, *cpu.CPUBackend]{skip}, 1)
	single.Data()[0] = 9
	assert.Equal(t, float32(1), skip.Data()[0], "single input is copied")

	assert.Panics(t, func() { tensor.Cat[float32, *cpu.CPUBackend](nil, 0) })
}
