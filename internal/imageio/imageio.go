// Package imageio moves images between files, image.Image values and
// [1, C, R, R] tensors with values in [0, 1].
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Load decodes a PNG or JPEG file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img as PNG at path.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Resize scales img to resolution x resolution with Catmull-Rom resampling.
// Images already at that size are copied pixel for pixel.
func Resize(img image.Image, resolution int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, resolution, resolution))
	b := img.Bounds()
	if b.Dx() == resolution && b.Dy() == resolution {
		draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

// ToTensor resizes img and returns it as a [1, channels, resolution,
// resolution] tensor in [0, 1]. channels must be 1 (luma) or 3 (RGB).
func ToTensor[B tensor.Backend](img image.Image, resolution, channels int, backend B) (*tensor.Tensor[float32, B], error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("unsupported channel count %d (want 1 or 3)", channels)
	}
	if resolution < 1 {
		return nil, fmt.Errorf("invalid resolution %d", resolution)
	}

	rgba := Resize(img, resolution)
	t := tensor.Zeros[float32](tensor.Shape{1, channels, resolution, resolution}, backend)
	data := t.Data()
	plane := resolution * resolution

	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			c := rgba.RGBAAt(x, y)
			i := y*resolution + x
			if channels == 1 {
				g := color.GrayModel.Convert(c).(color.Gray)
				data[i] = float32(g.Y) / 255
				continue
			}
			data[i] = float32(c.R) / 255
			data[plane+i] = float32(c.G) / 255
			data[2*plane+i] = float32(c.B) / 255
		}
	}
	return t, nil
}

// FromTensor converts a [1, C, H, W] tensor to an image, clamping values to
// [0, 1]. One channel gives *image.Gray, three give *image.RGBA.
func FromTensor[B tensor.Backend](t *tensor.Tensor[float32, B]) (image.Image, error) {
	shape := t.Shape()
	if len(shape) != 4 || shape[0] != 1 {
		return nil, fmt.Errorf("expected [1, C, H, W] tensor, got shape %v", shape)
	}
	channels, h, w := shape[1], shape[2], shape[3]
	data := t.Data()
	plane := h * w

	switch channels {
	case 1:
		img := image.NewGray(image.Rect(0, 0, w, h))
		for i := 0; i < plane; i++ {
			img.Pix[i] = toByte(data[i])
		}
		return img, nil
	case 3:
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < plane; i++ {
			img.Pix[4*i] = toByte(data[i])
			img.Pix[4*i+1] = toByte(data[plane+i])
			img.Pix[4*i+2] = toByte(data[2*plane+i])
			img.Pix[4*i+3] = 0xff
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported channel count %d (want 1 or 3)", channels)
	}
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
