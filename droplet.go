// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"encoding"
	"encoding/binary"

	"github.com/sixafter/fountain/x/rand/xoshiro"
)

// Edge descriptor tags on the wire.
const (
	tagSingle byte = 0x00
	tagSeeded byte = 0x01
)

// Edges describes which source chunks a droplet covers: either a single
// chunk index (degree 1) or a (seed, degree) pair that expands to the
// covered indices through the canonical PRNG. The compressed form keeps
// droplets small regardless of degree.
type Edges struct {
	seed   uint64
	index  int
	degree int
	single bool
}

// SingleEdge returns the descriptor of a degree-1 droplet covering chunk i.
func SingleEdge(i int) Edges {
	return Edges{index: i, degree: 1, single: true}
}

// SeededEdges returns a compressed descriptor covering degree chunk indices
// drawn from the canonical PRNG seeded with seed.
func SeededEdges(seed uint64, degree int) Edges {
	return Edges{seed: seed, degree: degree}
}

// Degree returns the number of indices the descriptor expands to. Repeats
// among them are counted, not collapsed.
func (e Edges) Degree() int {
	return e.degree
}

// Expand materializes the descriptor into chunk indices over [0, k). For a
// seeded descriptor the indices are the first Degree() uniform samples of a
// fresh xoshiro source; repeats are preserved, since XOR arithmetic cancels
// them downstream. k must be positive.
func (e Edges) Expand(k int) []int {
	if e.single {
		return []int{e.index}
	}
	if e.degree <= 0 {
		return nil
	}
	rng := xoshiro.New(e.seed)
	idx := make([]int, e.degree)
	for i := range idx {
		idx[i] = rng.Intn(k)
	}
	return idx
}

// Droplet is a single encoded symbol: the XOR of the source chunks named by
// its edge descriptor, with a payload of exactly one chunk. Droplets are
// immutable by convention; the encoder hands out fresh copies.
type Droplet struct {
	// Data is the payload.
	Data []byte

	// Edges identifies the source chunks XORed into Data.
	Edges Edges
}

var (
	_ encoding.BinaryMarshaler   = Droplet{}
	_ encoding.BinaryUnmarshaler = (*Droplet)(nil)
)

// MarshalBinary encodes the droplet in the fixed wire layout: a one-byte
// edge tag (0x00 single, 0x01 seeded), the descriptor fields as unsigned
// 64-bit little-endian integers (index for single; seed then degree for
// seeded), then the payload.
func (d Droplet) MarshalBinary() ([]byte, error) {
	if d.Edges.single {
		buf := make([]byte, 1+8+len(d.Data))
		buf[0] = tagSingle
		binary.LittleEndian.PutUint64(buf[1:9], uint64(d.Edges.index))
		copy(buf[9:], d.Data)
		return buf, nil
	}

	buf := make([]byte, 1+16+len(d.Data))
	buf[0] = tagSeeded
	binary.LittleEndian.PutUint64(buf[1:9], d.Edges.seed)
	binary.LittleEndian.PutUint64(buf[9:17], uint64(d.Edges.degree))
	copy(buf[17:], d.Data)
	return buf, nil
}

// UnmarshalBinary decodes the layout produced by MarshalBinary. The payload
// is whatever follows the descriptor; the decoder validates its length
// against the chunk size on catch.
func (d *Droplet) UnmarshalBinary(data []byte) error {
	if len(data) < 9 {
		return ErrMalformedDroplet
	}
	switch data[0] {
	case tagSingle:
		d.Edges = SingleEdge(int(binary.LittleEndian.Uint64(data[1:9])))
		d.Data = append([]byte(nil), data[9:]...)
	case tagSeeded:
		if len(data) < 17 {
			return ErrMalformedDroplet
		}
		d.Edges = SeededEdges(
			binary.LittleEndian.Uint64(data[1:9]),
			int(binary.LittleEndian.Uint64(data[9:17])),
		)
		d.Data = append([]byte(nil), data[17:]...)
	default:
		return ErrMalformedDroplet
	}
	return nil
}
