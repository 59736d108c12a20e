package stegastamp

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Encoder embeds a fingerprint into an image with a U-Net.
//
// The fingerprint is projected onto a 16x16 map per channel, upsampled to the
// image resolution and stacked with the image. Four stride-2 convolutions
// take the result down to resolution/16; four up stages bring it back,
// merging the matching encoder activation at each level.
//
// Example:
//
//	enc, err := stegastamp.NewEncoder(stegastamp.DefaultConfig(), backend)
//	stego := enc.Forward(image, fingerprint) // image: [N,3,32,32], fingerprint: [N,128]
type Encoder[B tensor.Backend] struct {
	cfg Config

	secretDense *nn.Linear[B]   // F -> 16*16*C
	fpUpsample  *nn.Upsample[B] // 16 -> resolution

	conv1 *nn.Conv2D[B] // 2C -> 32
	conv2 *nn.Conv2D[B] // 32 -> 32, /2
	conv3 *nn.Conv2D[B] // 32 -> 64, /2
	conv4 *nn.Conv2D[B] // 64 -> 128, /2
	conv5 *nn.Conv2D[B] // 128 -> 256, /2

	up6   *nn.Sequential[B] // 256 -> 128, x2
	conv6 *nn.Conv2D[B]     // [conv4, up6] 256 -> 128
	up7   *nn.Sequential[B] // 128 -> 64, x2
	conv7 *nn.Conv2D[B]     // [conv3, up7] 128 -> 64
	up8   *nn.Sequential[B] // 64 -> 32, x2
	conv8 *nn.Conv2D[B]     // [conv2, up8] 64 -> 32
	up9   *nn.Sequential[B] // 32 -> 32, x2
	conv9 *nn.Conv2D[B]     // [conv1, up9, inputs] 64+2C -> 32

	conv10   *nn.Conv2D[B] // 32 -> 32
	residual *nn.Conv2D[B] // 1x1, 32 -> C
}

// NewEncoder builds an Encoder with freshly initialized weights.
// It returns an error wrapping ErrInvalidResolution or ErrInvalidConfig when
// cfg is out of range.
func NewEncoder[B tensor.Backend](cfg Config, backend B) (*Encoder[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return newEncoder(cfg, backend, cfg.source()), nil
}

func newEncoder[B tensor.Backend](cfg Config, backend B, src rand.Source) *Encoder[B] {
	c := cfg.ImageChannels
	opt := nn.WithSource(src)

	return &Encoder[B]{
		cfg: cfg,

		secretDense: nn.NewLinear(cfg.FingerprintSize, fingerprintGrid*fingerprintGrid*c, backend, opt),
		fpUpsample:  nn.NewUpsample[B](cfg.upsampleFactor()),

		conv1: conv3x3(2*c, 32, 1, backend, opt),
		conv2: conv3x3(32, 32, 2, backend, opt),
		conv3: conv3x3(32, 64, 2, backend, opt),
		conv4: conv3x3(64, 128, 2, backend, opt),
		conv5: conv3x3(128, 256, 2, backend, opt),

		up6:   upStage(256, 128, backend, opt),
		conv6: conv3x3(256, 128, 1, backend, opt),
		up7:   upStage(128, 64, backend, opt),
		conv7: conv3x3(128, 64, 1, backend, opt),
		up8:   upStage(64, 32, backend, opt),
		conv8: conv3x3(64, 32, 1, backend, opt),
		up9:   upStage(32, 32, backend, opt),
		conv9: conv3x3(64+2*c, 32, 1, backend, opt),

		conv10:   conv3x3(32, 32, 1, backend, opt),
		residual: nn.NewConv2D(32, c, 1, 1, 1, 0, true, backend, opt),
	}
}

// Forward embeds fingerprint [N, F] into image [N, C, R, R].
//
// The result has the image's shape. It lies in [0, 1] unless the Encoder was
// built with ReturnResidual, in which case the unbounded residual is returned.
// Panics on shape mismatches.
func (e *Encoder[B]) Forward(image, fingerprint *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	checkImage("encoder", image, e.cfg)
	batch := image.Shape()[0]
	if fp := fingerprint.Shape(); len(fp) != 2 || fp[0] != batch || fp[1] != e.cfg.FingerprintSize {
		panic(fmt.Sprintf("encoder: expected fingerprint [%d,%d], got shape %v", batch, e.cfg.FingerprintSize, fp))
	}

	fpMap := e.secretDense.Forward(fingerprint).ReLU()
	fpMap = fpMap.Reshape(batch, e.cfg.ImageChannels, fingerprintGrid, fingerprintGrid)
	fpMap = e.fpUpsample.Forward(fpMap)

	inputs := tensor.Cat([]*tensor.Tensor[float32, B]{fpMap, image}, 1)

	conv1 := e.conv1.Forward(inputs).ReLU()
	conv2 := e.conv2.Forward(conv1).ReLU()
	conv3 := e.conv3.Forward(conv2).ReLU()
	conv4 := e.conv4.Forward(conv3).ReLU()
	conv5 := e.conv5.Forward(conv4).ReLU()

	up6 := e.up6.Forward(conv5)
	conv6 := e.conv6.Forward(tensor.Cat([]*tensor.Tensor[float32, B]{conv4, up6}, 1)).ReLU()
	up7 := e.up7.Forward(conv6)
	conv7 := e.conv7.Forward(tensor.Cat([]*tensor.Tensor[float32, B]{conv3, up7}, 1)).ReLU()
	up8 := e.up8.Forward(conv7)
	conv8 := e.conv8.Forward(tensor.Cat([]*tensor.Tensor[float32, B]{conv2, up8}, 1)).ReLU()
	up9 := e.up9.Forward(conv8)
	conv9 := e.conv9.Forward(tensor.Cat([]*tensor.Tensor[float32, B]{conv1, up9, inputs}, 1)).ReLU()

	conv10 := e.conv10.Forward(conv9).ReLU()
	residual := e.residual.Forward(conv10)

	if e.cfg.ReturnResidual {
		return residual
	}
	return residual.Sigmoid()
}

// Config returns the configuration the Encoder was built with.
func (e *Encoder[B]) Config() Config {
	return e.cfg
}

// Layers returns the named sub-modules in forward order.
func (e *Encoder[B]) Layers() []Layer[B] {
	return []Layer[B]{
		{"secret_dense", e.secretDense},
		{"fingerprint_upsample", e.fpUpsample},
		{"conv1", e.conv1},
		{"conv2", e.conv2},
		{"conv3", e.conv3},
		{"conv4", e.conv4},
		{"conv5", e.conv5},
		{"up6", e.up6},
		{"conv6", e.conv6},
		{"up7", e.up7},
		{"conv7", e.conv7},
		{"up8", e.up8},
		{"conv8", e.conv8},
		{"up9", e.up9},
		{"conv9", e.conv9},
		{"conv10", e.conv10},
		{"residual", e.residual},
	}
}

// Parameters returns all trainable parameters in forward order.
func (e *Encoder[B]) Parameters() []*nn.Parameter[B] {
	return collectParameters(e.Layers())
}

// String returns a string representation of the network.
func (e *Encoder[B]) String() string {
	return fmt.Sprintf("StegaStampEncoder(resolution=%d, image_channels=%d, fingerprint_size=%d, return_residual=%v)",
		e.cfg.Resolution, e.cfg.ImageChannels, e.cfg.FingerprintSize, e.cfg.ReturnResidual)
}
