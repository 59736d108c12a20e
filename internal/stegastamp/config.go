package stegastamp

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"
)

// fingerprintGrid is the side of the square map the fingerprint is first
// projected onto before being upsampled to the image resolution.
const fingerprintGrid = 16

// Config describes the geometry shared by Encoder, Decoder and Model.
type Config struct {
	// Resolution is the height and width of the square input images.
	// Must be a power of two and at least 16 (at least 32 for a Decoder).
	Resolution int

	// ImageChannels is the number of color channels (3 for RGB, 1 for gray).
	ImageChannels int

	// FingerprintSize is the number of bits embedded per image.
	FingerprintSize int

	// ReturnResidual makes the Encoder return the raw residual instead of the
	// sigmoid-bounded image. Ignored by Model.
	ReturnResidual bool

	// Seed makes weight initialization reproducible. Zero draws from the
	// global source.
	Seed uint64
}

// DefaultConfig returns the stand-alone Encoder/Decoder defaults:
// 32x32 RGB images carrying 128 bits.
func DefaultConfig() Config {
	return Config{
		Resolution:      32,
		ImageChannels:   3,
		FingerprintSize: 128,
	}
}

// DefaultModelConfig returns the Model defaults: 128x128 RGB images carrying
// 128 bits.
func DefaultModelConfig() Config {
	cfg := DefaultConfig()
	cfg.Resolution = 128
	return cfg
}

// Validate checks the sizes shared by every network.
func (c Config) Validate() error {
	if c.Resolution < fingerprintGrid || bits.OnesCount(uint(c.Resolution)) != 1 {
		return fmt.Errorf("%w: %d (must be a power of two >= %d)", ErrInvalidResolution, c.Resolution, fingerprintGrid)
	}
	if c.ImageChannels < 1 {
		return fmt.Errorf("%w: image channels must be positive, got %d", ErrInvalidConfig, c.ImageChannels)
	}
	if c.FingerprintSize < 1 {
		return fmt.Errorf("%w: fingerprint size must be positive, got %d", ErrInvalidConfig, c.FingerprintSize)
	}
	return nil
}

// upsampleFactor is 2^(log2(resolution) - 4), the factor taking the
// fingerprint grid to the image resolution.
func (c Config) upsampleFactor() int {
	return c.Resolution / fingerprintGrid
}

// source returns the weight initialization source for c, or nil for the
// global source.
func (c Config) source() rand.Source {
	if c.Seed == 0 {
		return nil
	}
	return rand.NewSource(c.Seed)
}
