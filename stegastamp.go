// Copyright 2025 The StegaStamp Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package stegastamp provides the StegaStamp encoder and decoder networks.
//
// The Encoder hides a fixed-length binary fingerprint in an image; the
// Decoder reads it back as one logit per bit. Model runs both.
//
// # Basic Usage
//
//	import (
//	    "github.com/stegastamp-go/stegastamp"
//	    "github.com/stegastamp-go/stegastamp/backend/cpu"
//	    "github.com/stegastamp-go/stegastamp/fingerprint"
//	    "github.com/stegastamp-go/stegastamp/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    model, err := stegastamp.NewModel(stegastamp.DefaultModelConfig(), backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    image := tensor.Rand[float32](tensor.Shape{1, 3, 128, 128}, backend)
//	    fp := fingerprint.Random(1, 128, nil, backend)
//
//	    out := model.Forward(image, fp)
//	    bits := fingerprint.Bits(out.Decoder)
//	}
//
// Only forward passes are provided; weights are randomly initialized.
package stegastamp

import (
	core "github.com/stegastamp-go/stegastamp/internal/stegastamp"
	"github.com/stegastamp-go/stegastamp/tensor"
)

// Config describes the image and fingerprint geometry.
type Config = core.Config

// DefaultConfig returns the Encoder/Decoder defaults (32x32 RGB, 128 bits).
func DefaultConfig() Config {
	return core.DefaultConfig()
}

// DefaultModelConfig returns the Model defaults (128x128 RGB, 128 bits).
func DefaultModelConfig() Config {
	return core.DefaultModelConfig()
}

// Errors returned (wrapped) by the constructors.
var (
	ErrInvalidResolution = core.ErrInvalidResolution
	ErrInvalidConfig     = core.ErrInvalidConfig
)

// Encoder embeds a fingerprint into an image.
type Encoder[B tensor.Backend] = core.Encoder[B]

// NewEncoder builds an Encoder with freshly initialized weights.
func NewEncoder[B tensor.Backend](cfg Config, backend B) (*Encoder[B], error) {
	return core.NewEncoder(cfg, backend)
}

// Decoder recovers fingerprint logits from an image.
type Decoder[B tensor.Backend] = core.Decoder[B]

// NewDecoder builds a Decoder with freshly initialized weights.
func NewDecoder[B tensor.Backend](cfg Config, backend B) (*Decoder[B], error) {
	return core.NewDecoder(cfg, backend)
}

// Model chains an Encoder and a Decoder.
type Model[B tensor.Backend] = core.Model[B]

// Output holds both results of Model.Forward.
type Output[B tensor.Backend] = core.Output[B]

// NewModel builds an Encoder and a Decoder from cfg.
func NewModel[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	return core.NewModel(cfg, backend)
}

// Layer is a named sub-module of a network.
type Layer[B tensor.Backend] = core.Layer[B]

// LayerSummary describes one layer for printing.
type LayerSummary = core.LayerSummary
