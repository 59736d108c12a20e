// Copyright 2025 The StegaStamp Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fingerprint converts payloads to fingerprint tensors and decoder
// logits back to bits.
package fingerprint

import (
	"golang.org/x/exp/rand"

	"github.com/stegastamp-go/stegastamp/internal/fingerprint"
	"github.com/stegastamp-go/stegastamp/tensor"
)

// Errors returned (wrapped) by this package.
var (
	ErrPayloadTooLong = fingerprint.ErrPayloadTooLong
	ErrShapeMismatch  = fingerprint.ErrShapeMismatch
)

// Random returns a [batch, size] tensor of independent fair bits.
func Random[B tensor.Backend](batch, size int, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	return fingerprint.Random(batch, size, src, backend)
}

// FromBits returns a [1, len(bits)] fingerprint tensor.
func FromBits[B tensor.Backend](bits []bool, backend B) *tensor.Tensor[float32, B] {
	return fingerprint.FromBits(bits, backend)
}

// FromBytes returns a [1, size] fingerprint tensor carrying data.
func FromBytes[B tensor.Backend](data []byte, size int, backend B) (*tensor.Tensor[float32, B], error) {
	return fingerprint.FromBytes(data, size, backend)
}

// FromHex is FromBytes for a hex encoded payload.
func FromHex[B tensor.Backend](s string, size int, backend B) (*tensor.Tensor[float32, B], error) {
	return fingerprint.FromHex(s, size, backend)
}

// Bits thresholds decoder logits at zero.
func Bits[B tensor.Backend](logits *tensor.Tensor[float32, B]) [][]bool {
	return fingerprint.Bits(logits)
}

// Bytes packs bits most significant bit first.
func Bytes(bits []bool) []byte {
	return fingerprint.Bytes(bits)
}

// Hex returns the hex encoding of Bytes(bits).
func Hex(bits []bool) string {
	return fingerprint.Hex(bits)
}

// BitAccuracy returns the fraction of matching bits between logits and target.
func BitAccuracy[B tensor.Backend](logits, target *tensor.Tensor[float32, B]) (float64, error) {
	return fingerprint.BitAccuracy(logits, target)
}
