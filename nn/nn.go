// Copyright 2025 The StegaStamp Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public neural network layers the StegaStamp
// networks are built from.
package nn

import (
	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NumParameters counts the scalar values held by params.
func NumParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.NumParameters(params)
}

// Initialization

// Option configures layer construction.
type Option = nn.Option

// Initializer fills a weight tensor of the given shape.
type Initializer = nn.Initializer

// WithSource draws initial weights from src.
func WithSource(src rand.Source) Option {
	return nn.WithSource(src)
}

// WithInit overrides the weight initializer.
func WithInit(init Initializer) Option {
	return nn.WithInit(init)
}

// DefaultInit draws from U(-1/sqrt(fan_in), 1/sqrt(fan_in)).
func DefaultInit(fanIn, fanOut int, shape tensor.Shape, src rand.Source) []float32 {
	return nn.DefaultInit(fanIn, fanOut, shape, src)
}

// Xavier draws from U(-sqrt(6/(fan_in+fan_out)), sqrt(6/(fan_in+fan_out))).
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) []float32 {
	return nn.Xavier(fanIn, fanOut, shape, src)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B, opts ...Option) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend, opts...)
}

// Conv2D represents a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
	opts ...Option,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend, opts...)
}

// ReLU is the max(0, x) activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid is the 1 / (1 + exp(-x)) activation.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Identity returns its input unchanged.
type Identity[B tensor.Backend] = nn.Identity[B]

// NewIdentity creates a new Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return nn.NewIdentity[B]()
}

// Upsample is nearest-neighbor upsampling by an integer factor.
type Upsample[B tensor.Backend] = nn.Upsample[B]

// NewUpsample creates a new Upsample module.
func NewUpsample[B tensor.Backend](scale int) *Upsample[B] {
	return nn.NewUpsample[B](scale)
}

// ZeroPad2D pads the spatial dimensions with zeros.
type ZeroPad2D[B tensor.Backend] = nn.ZeroPad2D[B]

// NewZeroPad2D creates a new ZeroPad2D module.
func NewZeroPad2D[B tensor.Backend](left, right, top, bottom int) *ZeroPad2D[B] {
	return nn.NewZeroPad2D[B](left, right, top, bottom)
}

// Flatten collapses every dimension after the batch dimension.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a new Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}
