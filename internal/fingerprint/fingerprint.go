// Package fingerprint converts between payloads (bytes, hex strings, bit
// slices) and the fingerprint tensors the networks consume and produce.
//
// A fingerprint tensor is [batch, size] float32 holding 0 or 1 per bit.
// Decoder logits have the same shape; a logit above zero reads as 1.
// Bytes are packed most significant bit first.
package fingerprint

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

var (
	// ErrPayloadTooLong is returned when a payload has more bits than the
	// fingerprint can carry.
	ErrPayloadTooLong = errors.New("payload longer than fingerprint")

	// ErrShapeMismatch is returned when two fingerprint tensors disagree in shape.
	ErrShapeMismatch = errors.New("fingerprint shape mismatch")
)

// Random returns a [batch, size] tensor of independent fair bits.
// A nil src uses the global source.
func Random[B tensor.Backend](batch, size int, src rand.Source, backend B) *tensor.Tensor[float32, B] {
	dist := distuv.Bernoulli{P: 0.5, Src: src}

	t := tensor.Zeros[float32](tensor.Shape{batch, size}, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
	return t
}

// FromBits returns a [1, len(bits)] fingerprint tensor.
func FromBits[B tensor.Backend](bits []bool, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](tensor.Shape{1, len(bits)}, backend)
	data := t.Data()
	for i, b := range bits {
		if b {
			data[i] = 1
		}
	}
	return t
}

// FromBytes returns a [1, size] fingerprint tensor carrying data, zero padded
// at the end.
func FromBytes[B tensor.Backend](data []byte, size int, backend B) (*tensor.Tensor[float32, B], error) {
	if size < 1 {
		return nil, fmt.Errorf("fingerprint size must be positive, got %d", size)
	}
	if 8*len(data) > size {
		return nil, fmt.Errorf("%w: %d bits into %d", ErrPayloadTooLong, 8*len(data), size)
	}

	bits := make([]bool, size)
	copy(bits, unpack(data))
	return FromBits(bits, backend), nil
}

// FromHex is FromBytes for a hex encoded payload.
func FromHex[B tensor.Backend](s string, size int, backend B) (*tensor.Tensor[float32, B], error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex fingerprint: %w", err)
	}
	return FromBytes(data, size, backend)
}

// Bits thresholds decoder logits [batch, size] at zero.
func Bits[B tensor.Backend](logits *tensor.Tensor[float32, B]) [][]bool {
	return threshold(logits, 0)
}

// Bytes packs bits most significant bit first. A trailing partial byte is
// padded with zero bits.
func Bytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// Hex returns the hex encoding of Bytes(bits).
func Hex(bits []bool) string {
	return hex.EncodeToString(Bytes(bits))
}

// BitAccuracy returns the fraction of bits where logits (thresholded at
// zero) agree with target (thresholded at one half), over the whole batch.
func BitAccuracy[B tensor.Backend](logits, target *tensor.Tensor[float32, B]) (float64, error) {
	if !logits.Shape().Equal(target.Shape()) {
		return 0, fmt.Errorf("%w: logits %v vs target %v", ErrShapeMismatch, logits.Shape(), target.Shape())
	}

	got, want := logits.Data(), target.Data()
	if len(got) == 0 {
		return 0, nil
	}
	matches := 0
	for i := range got {
		if (got[i] > 0) == (want[i] > 0.5) {
			matches++
		}
	}
	return float64(matches) / float64(len(got)), nil
}

func threshold[B tensor.Backend](t *tensor.Tensor[float32, B], at float32) [][]bool {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("fingerprint: expected [batch, size], got shape %v", shape))
	}

	data := t.Data()
	out := make([][]bool, shape[0])
	for b := range out {
		row := data[b*shape[1] : (b+1)*shape[1]]
		out[b] = make([]bool, shape[1])
		for i, v := range row {
			out[b][i] = v > at
		}
	}
	return out
}

func unpack(data []byte) []bool {
	bits := make([]bool, 8*len(data))
	for i := range bits {
		bits[i] = data[i/8]&(0x80>>(i%8)) != 0
	}
	return bits
}
