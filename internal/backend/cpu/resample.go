package cpu

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/parallel"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// UpsampleNearest2D enlarges the spatial dimensions of a [N, C, H, W] tensor by
// integer factors, copying each source pixel into a scaleH x scaleW block.
func (cpu *CPUBackend) UpsampleNearest2D(x *tensor.RawTensor, scaleH, scaleW int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("upsample: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if scaleH <= 0 || scaleW <= 0 {
		panic(fmt.Sprintf("upsample: invalid scale factors %dx%d", scaleH, scaleW))
	}

	outShape := tensor.Shape{shape[0], shape[1], shape[2] * scaleH, shape[3] * scaleW}
	result := cpu.newResult("upsample", outShape, x.DType())
	switch x.DType() {
	case tensor.Float32:
		upsampleNearest(result.AsFloat32(), x.AsFloat32(), shape, scaleH, scaleW, cpu.parallel)
	case tensor.Float64:
		upsampleNearest(result.AsFloat64(), x.AsFloat64(), shape, scaleH, scaleW, cpu.parallel)
	default:
		panic(fmt.Sprintf("upsample: unsupported dtype %s", x.DType()))
	}
	return result
}

// Pad2D zero-pads the spatial dimensions of a [N, C, H, W] tensor.
// Padding amounts are given per side and may differ (left, right, top, bottom).
func (cpu *CPUBackend) Pad2D(x *tensor.RawTensor, left, right, top, bottom int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("pad2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if left < 0 || right < 0 || top < 0 || bottom < 0 {
		panic(fmt.Sprintf("pad2d: negative padding (%d, %d, %d, %d)", left, right, top, bottom))
	}

	outShape := tensor.Shape{shape[0], shape[1], shape[2] + top + bottom, shape[3] + left + right}
	result := cpu.newResult("pad2d", outShape, x.DType())
	switch x.DType() {
	case tensor.Float32:
		pad2d(result.AsFloat32(), x.AsFloat32(), shape, outShape, left, top, cpu.parallel)
	case tensor.Float64:
		pad2d(result.AsFloat64(), x.AsFloat64(), shape, outShape, left, top, cpu.parallel)
	default:
		panic(fmt.Sprintf("pad2d: unsupported dtype %s", x.DType()))
	}
	return result
}

// upsampleNearest processes one (sample, channel) plane per task.
func upsampleNearest[T float](dst, src []T, shape tensor.Shape, scaleH, scaleW int, cfg parallel.Config) {
	channels, h, w := shape[1], shape[2], shape[3]
	outH, outW := h*scaleH, w*scaleW

	parallel.ForBatch(shape[0], channels, func(b, c int) {
		p := b*channels + c
		in := src[p*h*w : (p+1)*h*w]
		out := dst[p*outH*outW : (p+1)*outH*outW]
		for y := 0; y < outH; y++ {
			row := in[(y/scaleH)*w : (y/scaleH+1)*w]
			for x := 0; x < outW; x++ {
				out[y*outW+x] = row[x/scaleW]
			}
		}
	}, cfg)
}

// pad2d copies every source row into the zero-filled destination at its offset.
func pad2d[T float](dst, src []T, shape, outShape tensor.Shape, left, top int, cfg parallel.Config) {
	channels, h, w := shape[1], shape[2], shape[3]
	outH, outW := outShape[2], outShape[3]

	parallel.ForBatch(shape[0], channels, func(b, c int) {
		p := b*channels + c
		for y := 0; y < h; y++ {
			srcRow := src[(p*h+y)*w : (p*h+y+1)*w]
			start := p*outH*outW + (y+top)*outW + left
			copy(dst[start:start+w], srcRow)
		}
	}, cfg)
}
