package stegastamp

import (
	"fmt"

	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Output holds both results of Model.Forward.
type Output[B tensor.Backend] struct {
	// Encoder is the stego image, same shape as the input image.
	Encoder *tensor.Tensor[float32, B]
	// Decoder is the fingerprint logits recovered from Encoder, [N, F].
	Decoder *tensor.Tensor[float32, B]
}

// Model chains an Encoder and a Decoder built from the same Config.
//
// The Encoder always returns the sigmoid-bounded image here, since that is
// what the Decoder is meant to read.
//
// Example:
//
//	model, err := stegastamp.NewModel(stegastamp.DefaultModelConfig(), backend)
//	out := model.Forward(image, fingerprint)
//	bits := fingerprint.Bits(out.Decoder)
type Model[B tensor.Backend] struct {
	cfg     Config
	encoder *Encoder[B]
	decoder *Decoder[B]
}

// NewModel builds the Encoder and the Decoder. cfg.ReturnResidual is ignored.
// Both networks get their own parameters; with a non-zero Seed they are drawn
// from one stream, encoder first.
func NewModel[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	cfg.ReturnResidual = false
	if err := validateDecoder(cfg); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	src := cfg.source()
	return &Model[B]{
		cfg:     cfg,
		encoder: newEncoder(cfg, backend, src),
		decoder: newDecoder(cfg, backend, src),
	}, nil
}

// Forward encodes fingerprint [N, F] into image [N, C, R, R] and decodes the
// result. Panics on shape mismatches.
func (m *Model[B]) Forward(image, fingerprint *tensor.Tensor[float32, B]) Output[B] {
	encoded := m.encoder.Forward(image, fingerprint)
	return Output[B]{
		Encoder: encoded,
		Decoder: m.decoder.Forward(encoded),
	}
}

// Encoder returns the embedded Encoder.
func (m *Model[B]) Encoder() *Encoder[B] {
	return m.encoder
}

// Decoder returns the embedded Decoder.
func (m *Model[B]) Decoder() *Decoder[B] {
	return m.decoder
}

// Config returns the configuration the Model was built with.
func (m *Model[B]) Config() Config {
	return m.cfg
}

// Parameters returns the Encoder's parameters followed by the Decoder's.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	return append(m.encoder.Parameters(), m.decoder.Parameters()...)
}

// Summary lists every layer of both networks with its parameter count.
func (m *Model[B]) Summary() []LayerSummary {
	return append(
		summarize("encoder.", m.encoder.Layers()),
		summarize("decoder.", m.decoder.Layers())...,
	)
}

// String returns a string representation of the model.
func (m *Model[B]) String() string {
	return fmt.Sprintf("StegaStampModel(\n  encoder: %v\n  decoder: %v\n)", m.encoder, m.decoder)
}
