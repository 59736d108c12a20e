package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/parallel"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

func TestConv2D_BasicForward(t *testing.T) {
	backend := New()

	// 1 2 3
	// 4 5 6
	// 7 8 9
	input := rawFrom(t, tensor.Shape{1, 1, 3, 3}, seq(9)...)
	// Diagonal kernel.
	kernel := rawFrom(t, tensor.Shape{1, 1, 2, 2}, 1, 0, 0, 1)

	output := backend.Conv2D(input, kernel, 1, 0)
	require.True(t, output.Shape().Equal(tensor.Shape{1, 1, 2, 2}))
	assert.Equal(t, []float32{6, 8, 12, 14}, output.AsFloat32())
}

func TestConv2D_WithPadding(t *testing.T) {
	backend := New()

	input := rawFrom(t, tensor.Shape{1, 1, 3, 3}, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	kernel := rawFrom(t, tensor.Shape{1, 1, 3, 3}, 1, 1, 1, 1, 1, 1, 1, 1, 1)

	output := backend.Conv2D(input, kernel, 1, 1)
	require.True(t, output.Shape().Equal(tensor.Shape{1, 1, 3, 3}))
	// Each output counts the valid taps of its window.
	assert.Equal(t, []float32{
		4, 6, 4,
		6, 9, 6,
		4, 6, 4,
	}, output.AsFloat32())
}

func TestConv2D_StrideTwoHalvesResolution(t *testing.T) {
	backend := New()

	input := rawFrom(t, tensor.Shape{1, 1, 4, 4}, seq(16)...)
	kernel := rawFrom(t, tensor.Shape{1, 1, 3, 3}, 0, 0, 0, 0, 1, 0, 0, 0, 0)

	// 3x3, stride 2, padding 1 on even sizes gives exactly half.
	output := backend.Conv2D(input, kernel, 2, 1)
	require.True(t, output.Shape().Equal(tensor.Shape{1, 1, 2, 2}))
	assert.Equal(t, []float32{1, 3, 9, 11}, output.AsFloat32())
}

func TestConv2D_MultiChannel(t *testing.T) {
	backend := New()

	// Two input channels, two output channels, 1x1 kernel mixing them.
	input := rawFrom(t, tensor.Shape{1, 2, 1, 2}, 1, 2, 10, 20)
	kernel := rawFrom(t, tensor.Shape{2, 2, 1, 1},
		1, 1, // out 0 = in0 + in1
		2, -1, // out 1 = 2*in0 - in1
	)

	output := backend.Conv2D(input, kernel, 1, 0)
	require.True(t, output.Shape().Equal(tensor.Shape{1, 2, 1, 2}))
	assert.Equal(t, []float32{11, 22, -8, -16}, output.AsFloat32())
}

// naiveConv2D is a direct six-loop reference implementation.
func naiveConv2D(in, k []float32, n, cIn, h, w, cOut, kh, kw, stride, pad int) []float32 {
	hOut := (h+2*pad-kh)/stride + 1
	wOut := (w+2*pad-kw)/stride + 1
	out := make([]float32, n*cOut*hOut*wOut)
	for b := 0; b < n; b++ {
		for co := 0; co < cOut; co++ {
			for oy := 0; oy < hOut; oy++ {
				for ox := 0; ox < wOut; ox++ {
					var sum float32
					for ci := 0; ci < cIn; ci++ {
						for ky := 0; ky < kh; ky++ {
							for kx := 0; kx < kw; kx++ {
								y, x := oy*stride-pad+ky, ox*stride-pad+kx
								if y < 0 || y >= h || x < 0 || x >= w {
									continue
								}
								sum += in[((b*cIn+ci)*h+y)*w+x] * k[((co*cIn+ci)*kh+ky)*kw+kx]
							}
						}
					}
					out[((b*cOut+co)*hOut+oy)*wOut+ox] = sum
				}
			}
		}
	}
	return out
}

func TestConv2D_MatchesReference(t *testing.T) {
	tests := []struct {
		name                  string
		n, cIn, size, cOut, k int
		stride, pad           int
		workers               int
	}{
		{"3x3 same", 2, 3, 8, 4, 3, 1, 1, 1},
		{"3x3 strided", 3, 2, 8, 5, 3, 2, 1, 4},
		{"2x2 valid", 2, 4, 5, 2, 2, 1, 0, 2},
		{"1x1", 4, 6, 4, 3, 1, 1, 0, 3},
	}

	rng := rand.New(rand.NewSource(7))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewWithConfig(parallel.Config{Enabled: tt.workers > 1, NumWorkers: tt.workers, MinChunkSize: 1})

			inVals := make([]float32, tt.n*tt.cIn*tt.size*tt.size)
			for i := range inVals {
				inVals[i] = rng.Float32()*2 - 1
			}
			kVals := make([]float32, tt.cOut*tt.cIn*tt.k*tt.k)
			for i := range kVals {
				kVals[i] = rng.Float32()*2 - 1
			}

			input := rawFrom(t, tensor.Shape{tt.n, tt.cIn, tt.size, tt.size}, inVals...)
			kernel := rawFrom(t, tensor.Shape{tt.cOut, tt.cIn, tt.k, tt.k}, kVals...)

			got := backend.Conv2D(input, kernel, tt.stride, tt.pad)
			want := naiveConv2D(inVals, kVals, tt.n, tt.cIn, tt.size, tt.size, tt.cOut, tt.k, tt.k, tt.stride, tt.pad)
			assert.InDeltaSlice(t, want, got.AsFloat32(), 1e-4)
		})
	}
}

func TestConv2D_InvalidInputs(t *testing.T) {
	backend := New()
	input := rawFrom(t, tensor.Shape{1, 2, 3, 3}, seq(18)...)

	t.Run("ChannelMismatch", func(t *testing.T) {
		kernel := rawFrom(t, tensor.Shape{1, 3, 1, 1}, 1, 1, 1)
		assert.Panics(t, func() { backend.Conv2D(input, kernel, 1, 0) })
	})

	t.Run("KernelTooLarge", func(t *testing.T) {
		kernel := rawFrom(t, tensor.Shape{1, 2, 5, 5}, make([]float32, 50)...)
		assert.Panics(t, func() { backend.Conv2D(input, kernel, 1, 0) })
	})

	t.Run("Not4D", func(t *testing.T) {
		flat := rawFrom(t, tensor.Shape{18}, seq(18)...)
		kernel := rawFrom(t, tensor.Shape{1, 2, 1, 1}, 1, 1)
		assert.Panics(t, func() { backend.Conv2D(flat, kernel, 1, 0) })
	})
}
