// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import "github.com/sixafter/fountain/x/xor"

// rxDroplet is the decoder's mutable working copy of a received droplet:
// the materialized edge indices and a payload it can rewrite. The invariant
// is that data always equals the XOR of the source chunks still listed in
// edges; every mutation XORs a known chunk into data and removes its index
// from edges in the same step.
type rxDroplet struct {
	edges []int
	data  []byte
}

// block is one decoder-side source chunk: whether it has been recovered and
// which received droplets are still pending on it. The payload lives in the
// decoder's contiguous reconstruction buffer, not here.
type block struct {
	pending []*rxDroplet
	known   bool
}

// CatchResult is the outcome of feeding one droplet to the decoder.
type CatchResult struct {
	// Data holds the reconstructed message once Finished; for CatchTo it
	// aliases the caller's buffer.
	Data []byte

	// Stats is the progress snapshot after this catch.
	Stats Statistics

	// N is the number of valid bytes in Data.
	N int

	// Finished reports whether the message is fully reconstructed.
	Finished bool
}

// Decoder reconstructs a message from caught droplets by peeling belief
// propagation over the bipartite chunk/droplet graph.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf       []byte // reconstruction buffer, k*chunkSize bytes
	blocks    []block
	length    int
	chunkSize int
	k         int
	unknown   int
	received  int
}

// NewDecoder creates a Decoder for a message of messageLength bytes split
// into chunkSize-byte chunks. Both values must match the encoder's; they
// are agreed out of band.
func NewDecoder(messageLength, chunkSize int) (*Decoder, error) {
	if messageLength < 1 {
		return nil, ErrEmptyMessage
	}
	if chunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}

	k := numChunks(messageLength, chunkSize)
	return &Decoder{
		buf:       make([]byte, k*chunkSize),
		blocks:    make([]block, k),
		length:    messageLength,
		chunkSize: chunkSize,
		k:         k,
		unknown:   k,
	}, nil
}

// K returns the number of source chunks.
func (d *Decoder) K() int {
	return d.k
}

// Decoded reports whether the message is fully reconstructed.
func (d *Decoder) Decoded() bool {
	return d.unknown == 0
}

// Remaining returns the number of chunks not yet recovered.
func (d *Decoder) Remaining() int {
	return d.unknown
}

// Catch feeds one droplet to the decoder. When the droplet completes the
// message, the result carries a copy of the reconstructed bytes. Malformed
// droplets fail with ErrMalformedDroplet and still count as received;
// droplets carrying no new information are silently absorbed.
func (d *Decoder) Catch(drop Droplet) (CatchResult, error) {
	err := d.ingest(drop)
	res := CatchResult{Stats: d.stats()}
	if err != nil {
		return res, err
	}
	if d.unknown == 0 {
		out := make([]byte, d.length)
		copy(out, d.buf)
		res.Finished = true
		res.Data = out
		res.N = d.length
	}
	return res, nil
}

// CatchTo is the in-place variant of Catch: on completion the message is
// written into buf, which must hold at least the message length.
func (d *Decoder) CatchTo(drop Droplet, buf []byte) (CatchResult, error) {
	if len(buf) < d.length {
		return CatchResult{Stats: d.stats()}, ErrShortBuffer
	}
	err := d.ingest(drop)
	res := CatchResult{Stats: d.stats()}
	if err != nil {
		return res, err
	}
	if d.unknown == 0 {
		copy(buf, d.buf[:d.length])
		res.Finished = true
		res.Data = buf[:d.length]
		res.N = d.length
	}
	return res, nil
}

// ingest validates a droplet, reduces it against the known chunks, and
// either resolves a chunk, attaches the residual to the pending lists, or
// discards it.
func (d *Decoder) ingest(drop Droplet) error {
	d.received++

	if drop.Edges.Degree() == 0 {
		// No edges, no information.
		return nil
	}
	if len(drop.Data) != d.chunkSize {
		return ErrMalformedDroplet
	}

	idx := drop.Edges.Expand(d.k)
	for _, i := range idx {
		if i < 0 || i >= d.k {
			return ErrMalformedDroplet
		}
	}

	// Collapse repeated indices pairwise: x XOR x = 0, so a chunk drawn an
	// even number of times contributes nothing and an odd number of times
	// contributes once. After this a chunk appears at most once per droplet.
	counts := make(map[int]int, len(idx))
	for _, i := range idx {
		counts[i]++
	}
	edges := make([]int, 0, len(counts))
	for _, i := range idx {
		n, open := counts[i]
		if !open {
			continue
		}
		delete(counts, i)
		if n%2 == 1 {
			edges = append(edges, i)
		}
	}

	data := append([]byte(nil), drop.Data...)

	// Reduce against already-known chunks.
	residual := edges[:0]
	for _, i := range edges {
		if d.blocks[i].known {
			xor.Inplace(data, d.buf[i*d.chunkSize:(i+1)*d.chunkSize])
		} else {
			residual = append(residual, i)
		}
	}

	switch len(residual) {
	case 0:
		// Everything it covered is already known; nothing new.
		return nil
	case 1:
		d.resolve(residual[0], data)
	default:
		r := &rxDroplet{edges: residual, data: data}
		for _, i := range residual {
			d.blocks[i].pending = append(d.blocks[i].pending, r)
		}
	}
	return nil
}

// resolve records chunk i as recovered and cascades: each newly known chunk
// is XORed out of the droplets pending on it, and every droplet that
// collapses to degree 1 recovers the next chunk. The work stack is LIFO;
// the order is observable only in the sequence of side effects, never in
// the final buffer.
func (d *Decoder) resolve(i int, data []byte) {
	d.markKnown(i, data)
	stack := []int{i}

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pending := d.blocks[b].pending
		d.blocks[b].pending = nil
		for _, r := range pending {
			// Removal from other pending lists is lazy, so b is still among
			// r's edges here even if r collapsed earlier in the cascade.
			d.reduce(r, b)
			if len(r.edges) != 1 {
				continue
			}
			j := r.edges[0]
			if !d.blocks[j].known {
				d.markKnown(j, r.data)
				stack = append(stack, j)
			}
		}
	}
}

// markKnown copies data into chunk i's region of the reconstruction buffer
// and flags it as recovered.
func (d *Decoder) markKnown(i int, data []byte) {
	copy(d.buf[i*d.chunkSize:(i+1)*d.chunkSize], data)
	d.blocks[i].known = true
	d.unknown--
}

// reduce XORs the recovered chunk b out of r's payload and removes b from
// its edge list, preserving the rxDroplet invariant.
func (d *Decoder) reduce(r *rxDroplet, b int) {
	xor.Inplace(r.data, d.buf[b*d.chunkSize:(b+1)*d.chunkSize])
	for i, e := range r.edges {
		if e == b {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			break
		}
	}
}

func (d *Decoder) stats() Statistics {
	return Statistics{
		Droplets: d.received,
		Chunks:   d.k,
		Unknown:  d.unknown,
		Overhead: float64(d.received) * 100 / float64(d.k),
	}
}
