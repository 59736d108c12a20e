package stegastamp

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// decoderStages lists (out_channels, stride) of the decoder's 3x3 convolutions.
var decoderStages = []struct{ channels, stride int }{
	{32, 2},
	{32, 1},
	{64, 2},
	{64, 1},
	{64, 2},
	{128, 2},
	{128, 2},
}

const decoderHidden = 512

// Decoder recovers fingerprint logits from an image.
//
// Seven 3x3 convolutions (five of them stride 2) reduce the image to a
// [128, R/32, R/32] feature map, which two dense layers turn into one logit
// per fingerprint bit. A logit above zero reads as bit 1.
type Decoder[B tensor.Backend] struct {
	cfg Config

	convs  *nn.Sequential[B]
	flat   *nn.Flatten[B]
	dense1 *nn.Linear[B] // flat -> 512
	dense2 *nn.Linear[B] // 512 -> F
}

// NewDecoder builds a Decoder with freshly initialized weights.
//
// Besides the checks of Config.Validate the resolution must leave a
// R/32 x R/32 feature map after the convolution stack, so it must be at
// least 32.
func NewDecoder[B tensor.Backend](cfg Config, backend B) (*Decoder[B], error) {
	if err := validateDecoder(cfg); err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}
	return newDecoder(cfg, backend, cfg.source()), nil
}

func validateDecoder(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	size := cfg.Resolution
	for _, s := range decoderStages {
		size = (size+2-3)/s.stride + 1
	}
	if got, want := size*size*128, decoderFlatSize(cfg); got != want {
		return fmt.Errorf("%w: %d leaves %d features after the convolutions, need %d (resolution must be >= 32)",
			ErrInvalidResolution, cfg.Resolution, got, want)
	}
	return nil
}

// decoderFlatSize is R*R*128/32/32.
func decoderFlatSize(cfg Config) int {
	return cfg.Resolution * cfg.Resolution * 128 / 32 / 32
}

func newDecoder[B tensor.Backend](cfg Config, backend B, src rand.Source) *Decoder[B] {
	opt := nn.WithSource(src)

	convs := nn.NewSequential[B]()
	in := cfg.ImageChannels
	for _, s := range decoderStages {
		convs.Add(conv3x3(in, s.channels, s.stride, backend, opt))
		convs.Add(nn.NewReLU[B]())
		in = s.channels
	}

	return &Decoder[B]{
		cfg:    cfg,
		convs:  convs,
		flat:   nn.NewFlatten[B](),
		dense1: nn.NewLinear(decoderFlatSize(cfg), decoderHidden, backend, opt),
		dense2: nn.NewLinear(decoderHidden, cfg.FingerprintSize, backend, opt),
	}
}

// Forward maps image [N, C, R, R] to fingerprint logits [N, F].
// Panics on shape mismatches.
func (d *Decoder[B]) Forward(image *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	checkImage("decoder", image, d.cfg)

	features := d.flat.Forward(d.convs.Forward(image))
	hidden := d.dense1.Forward(features).ReLU()
	return d.dense2.Forward(hidden)
}

// Config returns the configuration the Decoder was built with.
func (d *Decoder[B]) Config() Config {
	return d.cfg
}

// Layers returns the named sub-modules in forward order.
func (d *Decoder[B]) Layers() []Layer[B] {
	return []Layer[B]{
		{"convs", d.convs},
		{"flatten", d.flat},
		{"dense1", d.dense1},
		{"dense2", d.dense2},
	}
}

// Parameters returns all trainable parameters in forward order.
func (d *Decoder[B]) Parameters() []*nn.Parameter[B] {
	return collectParameters(d.Layers())
}

// String returns a string representation of the network.
func (d *Decoder[B]) String() string {
	return fmt.Sprintf("StegaStampDecoder(resolution=%d, image_channels=%d, fingerprint_size=%d)",
		d.cfg.Resolution, d.cfg.ImageChannels, d.cfg.FingerprintSize)
}
