// Copyright 2025 The StegaStamp Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// Matrix products run on gonum's BLAS; convolutions use im2col and fan out
// over the batch. The worker count defaults to the number of logical cores
// and can be overridden with the STEGASTAMP_WORKERS environment variable.
//
//	backend := cpu.New()
//	model, err := stegastamp.NewModel(stegastamp.DefaultModelConfig(), backend)
package cpu

import (
	internalcpu "github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/parallel"
	"github.com/stegastamp-go/stegastamp/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Config controls how many goroutines the heavier kernels use.
type Config = parallel.Config

// DefaultConfig returns the parallelism settings New uses.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// New creates a new CPU backend.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}
