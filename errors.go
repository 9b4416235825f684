// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import "errors"

var (
	// ErrEmptyMessage is returned when an encoder or decoder is constructed
	// for a zero-length message.
	ErrEmptyMessage = errors.New("empty message")

	// ErrInvalidChunkSize is returned when the chunk size is less than one.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrInvalidDistribution is returned when degree distribution parameters
	// are out of range: k < 1, c <= 0, delta outside (0, 1), or a spike
	// override outside [1, k].
	ErrInvalidDistribution = errors.New("invalid degree distribution parameters")

	// ErrMalformedDroplet is returned by the decoder for a droplet whose
	// payload length does not match the chunk size, or whose edges reference
	// a chunk index outside [0, k). The droplet still counts as received.
	ErrMalformedDroplet = errors.New("malformed droplet")

	// ErrShortBuffer is returned by CatchTo when the destination buffer
	// cannot hold the reconstructed message.
	ErrShortBuffer = errors.New("output buffer too small for message")

	// ErrNilRandReader is returned when the encoder's entropy source option
	// is explicitly set to nil.
	ErrNilRandReader = errors.New("nil random reader")
)
