// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/sixafter/fountain/x/rand/xoshiro"
	"github.com/sixafter/fountain/x/xor"
)

// Mode selects how the encoder opens its droplet stream.
type Mode int

const (
	// ModeSystematic emits each source chunk once, in order, before
	// switching to random droplets. On a lossless channel the decoder
	// finishes after exactly k droplets with zero overhead.
	ModeSystematic Mode = iota

	// ModeRandom emits random droplets from the first call.
	ModeRandom
)

// Distribution selects the degree distribution for random droplets.
type Distribution int

const (
	// DistributionIdeal is the ideal soliton distribution.
	DistributionIdeal Distribution = iota

	// DistributionRobust is the robust soliton distribution.
	DistributionRobust
)

// Option defines a function type for configuring the Encoder.
type Option func(*ConfigOptions)

// WithMode sets the encoder mode. The default is ModeSystematic.
func WithMode(mode Mode) Option {
	return func(c *ConfigOptions) {
		c.Mode = mode
	}
}

// WithIdealSoliton selects the ideal soliton degree distribution. This is
// the default.
func WithIdealSoliton() Option {
	return func(c *ConfigOptions) {
		c.Distribution = DistributionIdeal
	}
}

// WithRobustSoliton selects the robust soliton degree distribution with
// tuning parameters c > 0 and delta in (0, 1).
func WithRobustSoliton(cParam, delta float64) Option {
	return func(c *ConfigOptions) {
		c.Distribution = DistributionRobust
		c.C = cParam
		c.Delta = delta
	}
}

// WithSpike overrides the robust soliton spike location M. Zero keeps the
// default M = floor(k/R). Ignored for the ideal distribution.
func WithSpike(m int) Option {
	return func(c *ConfigOptions) {
		c.Spike = m
	}
}

// WithSeed fixes the master seed, making the entire droplet stream
// deterministic and reproducible. The degree sampler and the per-droplet
// seed stream both derive from it through splitmix64, so the two streams
// stay decorrelated.
func WithSeed(seed uint64) Option {
	return func(c *ConfigOptions) {
		c.Seed = seed
		c.HasSeed = true
	}
}

// WithRandReader sets the entropy source used to draw the master seed when
// WithSeed is not given. Defaults to crypto/rand.Reader.
func WithRandReader(reader io.Reader) Option {
	return func(c *ConfigOptions) {
		c.RandReader = reader
	}
}

// ConfigOptions holds the configurable options for the Encoder.
// It is used with the functional options pattern.
type ConfigOptions struct {
	// RandReader is the entropy source for the master seed when no explicit
	// seed is configured.
	RandReader io.Reader

	// Mode is the encoder mode.
	Mode Mode

	// Distribution is the degree distribution for random droplets.
	Distribution Distribution

	// C is the robust soliton tuning constant.
	C float64

	// Delta is the robust soliton failure bound.
	Delta float64

	// Spike is the robust soliton spike override; zero keeps the default.
	Spike int

	// Seed is the master seed; only honored when HasSeed is set.
	Seed uint64

	// HasSeed records whether Seed was explicitly configured.
	HasSeed bool
}

// Config holds the runtime configuration of an Encoder.
// It is immutable after initialization.
type Config interface {
	// K returns the number of source chunks.
	K() int

	// ChunkSize returns the chunk size in bytes.
	ChunkSize() int

	// MessageLength returns the unpadded message length in bytes.
	MessageLength() int

	// Mode returns the encoder mode.
	Mode() Mode

	// Distribution returns the degree distribution in use.
	Distribution() Distribution

	// Seed returns the master seed the droplet stream derives from.
	Seed() uint64
}

// Configuration defines the interface for retrieving encoder configuration.
type Configuration interface {
	// Config returns the runtime configuration of the encoder.
	Config() Config
}

// runtimeConfig holds the runtime configuration of an Encoder.
// It is immutable after initialization.
type runtimeConfig struct {
	k             int
	chunkSize     int
	messageLength int
	mode          Mode
	distribution  Distribution
	seed          uint64
}

// Encoder streams droplets for a single message. Its state is purely
// forward: it retains no droplets it has produced.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	config  *runtimeConfig
	source  []byte // message padded to k*chunkSize
	sampler DegreeSampler
	seeds   *xoshiro.Source
	next    int // systematic cursor
}

// NewEncoder creates an Encoder for message with the given chunk size.
// It accepts variadic Option parameters to configure the mode, the degree
// distribution, and the seeding policy.
func NewEncoder(message []byte, chunkSize int, options ...Option) (*Encoder, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	if chunkSize < 1 {
		return nil, ErrInvalidChunkSize
	}

	opts := &ConfigOptions{
		RandReader: rand.Reader,
	}
	for _, opt := range options {
		opt(opts)
	}
	if opts.RandReader == nil {
		return nil, ErrNilRandReader
	}

	seed := opts.Seed
	if !opts.HasSeed {
		var raw [8]byte
		if _, err := io.ReadFull(opts.RandReader, raw[:]); err != nil {
			return nil, err
		}
		seed = binary.LittleEndian.Uint64(raw[:])
	}

	k := numChunks(len(message), chunkSize)
	source := make([]byte, k*chunkSize)
	copy(source, message)

	// Derive decorrelated sub-seeds for the degree sampler and the
	// per-droplet seed stream.
	sm := seed
	samplerSeed := xoshiro.SplitMix64(&sm)
	dropletSeed := xoshiro.SplitMix64(&sm)

	var (
		sampler DegreeSampler
		err     error
	)
	switch opts.Distribution {
	case DistributionRobust:
		sampler, err = NewRobustSoliton(k, opts.C, opts.Delta, opts.Spike, samplerSeed)
	default:
		sampler, err = NewIdealSoliton(k, samplerSeed)
	}
	if err != nil {
		return nil, err
	}

	return &Encoder{
		config: &runtimeConfig{
			k:             k,
			chunkSize:     chunkSize,
			messageLength: len(message),
			mode:          opts.Mode,
			distribution:  opts.Distribution,
			seed:          seed,
		},
		source:  source,
		sampler: sampler,
		seeds:   xoshiro.New(dropletSeed),
	}, nil
}

// Next produces the next droplet. The stream is unbounded; the caller
// controls the rate and decides when to stop.
func (e *Encoder) Next() Droplet {
	if e.config.mode == ModeSystematic && e.next < e.config.k {
		i := e.next
		e.next++
		return Droplet{Data: e.chunk(i), Edges: SingleEdge(i)}
	}
	return e.random()
}

// Drops produces the next n droplets as a batch.
func (e *Encoder) Drops(n int) []Droplet {
	out := make([]Droplet, n)
	for i := range out {
		out[i] = e.Next()
	}
	return out
}

// K returns the number of source chunks; any k received droplets are the
// theoretical minimum for reconstruction.
func (e *Encoder) K() int {
	return e.config.k
}

// Config returns the runtime configuration of the encoder.
// It implements the Configuration interface.
func (e *Encoder) Config() Config {
	return e.config
}

// chunk returns a copy of source chunk i.
func (e *Encoder) chunk(i int) []byte {
	out := make([]byte, e.config.chunkSize)
	copy(out, e.source[i*e.config.chunkSize:(i+1)*e.config.chunkSize])
	return out
}

// random produces one random droplet: a degree d from the sampler, a fresh
// seed for the edge expansion, and the XOR of the chunks the seed names.
func (e *Encoder) random() Droplet {
	d := e.sampler.Next()
	seed := e.seeds.Uint64()
	idx := SeededEdges(seed, d).Expand(e.config.k)

	if d == 1 {
		// A degree-1 droplet needs no seed expansion on the receiving side.
		return Droplet{Data: e.chunk(idx[0]), Edges: SingleEdge(idx[0])}
	}

	data := e.chunk(idx[0])
	s := e.config.chunkSize
	for _, j := range idx[1:] {
		xor.Inplace(data, e.source[j*s:(j+1)*s])
	}
	return Droplet{Data: data, Edges: SeededEdges(seed, d)}
}

// K returns the number of source chunks.
func (c *runtimeConfig) K() int {
	return c.k
}

// ChunkSize returns the chunk size in bytes.
func (c *runtimeConfig) ChunkSize() int {
	return c.chunkSize
}

// MessageLength returns the unpadded message length in bytes.
func (c *runtimeConfig) MessageLength() int {
	return c.messageLength
}

// Mode returns the encoder mode.
func (c *runtimeConfig) Mode() Mode {
	return c.mode
}

// Distribution returns the degree distribution in use.
func (c *runtimeConfig) Distribution() Distribution {
	return c.distribution
}

// Seed returns the master seed the droplet stream derives from.
func (c *runtimeConfig) Seed() uint64 {
	return c.seed
}
