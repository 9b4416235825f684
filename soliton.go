// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"math"
	"sort"

	"github.com/sixafter/fountain/x/rand/xoshiro"
)

// DegreeSampler draws droplet degrees from a distribution over [1, k].
//
// Samplers are seeded and deterministic: two samplers built with the same
// parameters and seed produce the same degree sequence.
type DegreeSampler interface {
	// Next returns the next degree.
	Next() int
}

// IdealSoliton samples the ideal soliton distribution:
// rho(1) = 1/k and rho(d) = 1/(d(d-1)) for d in [2, k].
//
// The ideal soliton is optimal in expectation but fragile in practice; the
// robust variant below is what production channels want.
type IdealSoliton struct {
	limit float64
	rng   *xoshiro.Source
}

// NewIdealSoliton returns an ideal soliton sampler over [1, k].
func NewIdealSoliton(k int, seed uint64) (*IdealSoliton, error) {
	if k < 1 {
		return nil, ErrInvalidDistribution
	}
	return &IdealSoliton{
		limit: 1 / float64(k),
		rng:   xoshiro.New(seed),
	}, nil
}

// Next samples by the closed-form inverse of the ideal soliton CDF: draw
// y uniform in [0, 1); if y >= 1/k the degree is ceil(1/y), else 1.
func (s *IdealSoliton) Next() int {
	y := s.rng.Float64()
	if y >= s.limit {
		return int(math.Ceil(1 / y))
	}
	return 1
}

// RobustSoliton samples the robust soliton distribution by inverse transform
// over a cached CDF table of length k.
//
// The distribution adds to the ideal soliton a correction tau that boosts
// low degrees and places a spike at degree M, raising the probability that
// the peeling decoder never runs out of degree-1 droplets. With
// R = c*ln(k/delta)*sqrt(k):
//
//	tau(d) = R/(d*k)          for d in [1, M-1]
//	tau(M) = R*ln(R/delta)/k
//	tau(d) = 0                for d > M
//
// and the pmf is mu(d) = (rho(d)+tau(d))/Z with Z the normalizer.
type RobustSoliton struct {
	cdf   []float64
	spike int
	rng   *xoshiro.Source
}

// NewRobustSoliton returns a robust soliton sampler over [1, k] with tuning
// parameters c > 0 and delta in (0, 1). A spike in [1, k] overrides the
// default spike location M = floor(k/R); zero keeps the default; any other
// value is rejected.
func NewRobustSoliton(k int, c, delta float64, spike int, seed uint64) (*RobustSoliton, error) {
	if k < 1 || c <= 0 || delta <= 0 || delta >= 1 {
		return nil, ErrInvalidDistribution
	}
	if spike < 0 || spike > k {
		return nil, ErrInvalidDistribution
	}

	r := c * math.Log(float64(k)/delta) * math.Sqrt(float64(k))
	m := spike
	if m == 0 {
		m = int(math.Floor(float64(k) / r))
		// Small k or large R push floor(k/R) out of [1, k]; pin the spike to
		// the nearest valid degree.
		if m < 1 {
			m = 1
		}
		if m > k {
			m = k
		}
	}

	pdf := make([]float64, k+1)
	pdf[1] = 1 / float64(k)
	for d := 2; d <= k; d++ {
		pdf[d] = 1 / (float64(d) * float64(d-1))
	}
	for d := 1; d < m; d++ {
		pdf[d] += r / (float64(d) * float64(k))
	}
	// R < delta makes the spike term negative; that parameter corner carries
	// no spike mass.
	if spikeMass := r * math.Log(r/delta) / float64(k); spikeMass > 0 {
		pdf[m] += spikeMass
	}

	var z float64
	for d := 1; d <= k; d++ {
		z += pdf[d]
	}

	cdf := make([]float64, k)
	var acc float64
	for d := 1; d <= k; d++ {
		acc += pdf[d] / z
		cdf[d-1] = acc
	}
	// Normalization leaves the last entry within a few ulps of 1; pin it so
	// the search below can never fall off the table.
	cdf[k-1] = 1

	return &RobustSoliton{
		cdf:   cdf,
		spike: m,
		rng:   xoshiro.New(seed),
	}, nil
}

// Next samples a degree by binary search over the cached CDF.
func (s *RobustSoliton) Next() int {
	y := s.rng.Float64()
	return sort.Search(len(s.cdf), func(i int) bool { return s.cdf[i] > y }) + 1
}

// Spike returns the spike location M in effect for this sampler.
func (s *RobustSoliton) Spike() int {
	return s.spike
}
