// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package fountain implements a Luby Transform (LT) fountain code.
//
// A fountain code turns a fixed-length message into an effectively unbounded
// stream of small, independent droplets. The original message can be
// recovered from any sufficiently large subset of those droplets, so on a
// lossy or one-way channel the receiver never has to ask for a
// retransmission; it just keeps catching droplets until the message falls
// out.
//
// The Encoder splits the message into k fixed-size chunks and emits
// droplets, each the XOR of a pseudo-randomly chosen set of chunks. The set
// is never shipped explicitly: a droplet carries either a single chunk index
// or a (seed, degree) pair that the Decoder expands through the same pinned
// PRNG (x/rand/xoshiro). The number of chunks per droplet follows the ideal
// or robust soliton degree distribution, which is what makes the peeling
// decoder finish with high probability at low overhead.
//
// The Decoder runs belief propagation over the bipartite chunk/droplet
// graph: every droplet whose degree collapses to one resolves a chunk, and
// every resolved chunk is XORed out of the droplets still pending on it,
// cascading until the message is complete.
//
// Encoder and Decoder are independent, synchronous, single-threaded objects.
// They share no global state, so callers wanting parallelism run one pair
// per goroutine. Both sides must agree on the message length and chunk size
// out of band.
package fountain

// numChunks returns k = ceil(length/chunkSize), the number of source chunks
// the message partitions into. Both arguments must be positive.
func numChunks(length, chunkSize int) int {
	return (length + chunkSize - 1) / chunkSize
}
