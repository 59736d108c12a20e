package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

func TestConv2D_Creation(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(3, 32, 3, 3, 1, 1, true, backend)

	assert.Equal(t, 3, conv.InChannels())
	assert.Equal(t, 32, conv.OutChannels())
	assert.Equal(t, [2]int{3, 3}, conv.KernelSize())
	assert.Equal(t, 1, conv.Stride())
	assert.Equal(t, 1, conv.Padding())

	params := conv.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, tensor.Shape{32, 3, 3, 3}, params[0].Shape())
	assert.Equal(t, tensor.Shape{32}, params[1].Shape())

	assert.Equal(t,
		"Conv2D(in_channels=3, out_channels=32, kernel_size=(3, 3), stride=1, padding=1, bias=true)",
		conv.String())
}

func TestConv2D_NoBias(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(1, 1, 2, 2, 1, 0, false, backend)

	assert.Len(t, conv.Parameters(), 1)
	assert.Nil(t, conv.Bias())
}

func TestConv2D_ForwardWithBias(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(1, 2, 2, 2, 1, 0, true, backend)

	// Channel 0: diagonal kernel. Channel 1: all zeros.
	copy(conv.Weight().Tensor().Data(), []float32{1, 0, 0, 1, 0, 0, 0, 0})
	copy(conv.Bias().Tensor().Data(), []float32{0.5, -2})

	input := fromSlice(t, backend, tensor.Shape{1, 1, 3, 3}, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	output := conv.Forward(input)

	require.Equal(t, tensor.Shape{1, 2, 2, 2}, output.Shape())
	assert.InDeltaSlice(t, []float32{6.5, 8.5, 12.5, 14.5, -2, -2, -2, -2}, output.Data(), 1e-5)
}

func TestConv2D_OutputSize(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name    string
		k, s, p int
		in      int
		want    int
	}{
		{"same", 3, 1, 1, 32, 32},
		{"halve", 3, 2, 1, 32, 16},
		{"halve odd", 3, 2, 1, 5, 3},
		{"valid 2x2", 2, 1, 0, 9, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := nn.NewConv2D(2, 4, tt.k, tt.k, tt.s, tt.p, true, backend)
			assert.Equal(t, [2]int{tt.want, tt.want}, conv.ComputeOutputSize(tt.in, tt.in))

			out := conv.Forward(tensor.Rand[float32](tensor.Shape{1, 2, tt.in, tt.in}, backend))
			assert.Equal(t, tensor.Shape{1, 4, tt.want, tt.want}, out.Shape())
		})
	}
}

func TestConv2D_InvalidArguments(t *testing.T) {
	backend := cpu.New()

	assert.Panics(t, func() { nn.NewConv2D(0, 1, 3, 3, 1, 1, true, backend) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 0, 3, 1, 1, true, backend) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 3, 3, 0, 1, true, backend) })
	assert.Panics(t, func() { nn.NewConv2D(1, 1, 3, 3, 1, -1, true, backend) })

	conv := nn.NewConv2D(3, 4, 3, 3, 1, 1, true, backend)
	assert.Panics(t, func() { conv.Forward(tensor.Zeros[float32](tensor.Shape{1, 2, 8, 8}, backend)) })
	assert.Panics(t, func() { conv.Forward(tensor.Zeros[float32](tensor.Shape{3, 8, 8}, backend)) })
}
