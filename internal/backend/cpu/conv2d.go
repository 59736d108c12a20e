package cpu

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/parallel"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// conv2dGeometry holds the sizes shared by the im2col and GEMM steps.
type conv2dGeometry struct {
	cIn, h, w    int
	cOut, kh, kw int
	hOut, wOut   int
	stride, pad  int
}

// colRows is the height of the unrolled patch matrix (C_in * K_h * K_w).
func (g conv2dGeometry) colRows() int { return g.cIn * g.kh * g.kw }

// colCols is the number of output positions per sample (H_out * W_out).
func (g conv2dGeometry) colCols() int { return g.hOut * g.wOut }

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// Per sample, the input patches are unrolled into a [C_in*K_h*K_w, out_h*out_w]
// matrix so the convolution becomes one GEMM with the kernel viewed as
// [C_out, C_in*K_h*K_w]. The product lands directly in the sample's NCHW slot.
// Samples are processed concurrently.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}
	if input.DType() != kernel.DType() {
		panic(fmt.Sprintf("conv2d: dtype mismatch %s vs %s", input.DType(), kernel.DType()))
	}
	if stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d or padding %d", stride, padding))
	}

	g := conv2dGeometry{
		cIn: inputShape[1], h: inputShape[2], w: inputShape[3],
		cOut: kernelShape[0], kh: kernelShape[2], kw: kernelShape[3],
		stride: stride, pad: padding,
	}
	if g.cIn != kernelShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", g.cIn, kernelShape[1]))
	}

	g.hOut = (g.h+2*padding-g.kh)/stride + 1
	g.wOut = (g.w+2*padding-g.kw)/stride + 1
	if g.hOut <= 0 || g.wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", g.hOut, g.wOut))
	}

	n := inputShape[0]
	output := cpu.newResult("conv2d", tensor.Shape{n, g.cOut, g.hOut, g.wOut}, input.DType())

	cfg := cpu.parallel.WithMinChunk(1)
	switch input.DType() {
	case tensor.Float32:
		conv2dBatch(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), n, g, gemmFloat32, cfg)
	case tensor.Float64:
		conv2dBatch(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(), n, g, gemmFloat64, cfg)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

func conv2dBatch[T float](out, in, kernel []T, n int, g conv2dGeometry, gemm func(c, a, b []T, m, k, n int), cfg parallel.Config) {
	inSize := g.cIn * g.h * g.w
	outSize := g.cOut * g.colCols()

	parallel.For(n, func(i int) {
		col := make([]T, g.colRows()*g.colCols())
		im2col(col, in[i*inSize:(i+1)*inSize], g)
		gemm(out[i*outSize:(i+1)*outSize], kernel, col, g.cOut, g.colRows(), g.colCols())
	}, cfg)
}

// im2col unrolls one [C, H, W] sample into col, laid out as
// [C*K_h*K_w, H_out*W_out]. Taps that fall into the padding read as zero.
func im2col[T float](col, src []T, g conv2dGeometry) {
	cols := g.colCols()
	row := 0
	for c := 0; c < g.cIn; c++ {
		plane := src[c*g.h*g.w : (c+1)*g.h*g.w]
		for kh := 0; kh < g.kh; kh++ {
			for kw := 0; kw < g.kw; kw++ {
				dst := col[row*cols : (row+1)*cols]
				for oh := 0; oh < g.hOut; oh++ {
					y := oh*g.stride - g.pad + kh
					for ow := 0; ow < g.wOut; ow++ {
						x := ow*g.stride - g.pad + kw
						if y >= 0 && y < g.h && x >= 0 && x < g.w {
							dst[oh*g.wOut+ow] = plane[y*g.w+x]
						} else {
							dst[oh*g.wOut+ow] = 0
						}
					}
				}
				row++
			}
		}
	}
}
