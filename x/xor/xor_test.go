// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package xor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templexxx/xorsimd"

	"github.com/sixafter/fountain/x/rand/xoshiro"
)

// fill populates buf with a deterministic byte pattern derived from seed.
func fill(buf []byte, seed uint64) {
	rng := xoshiro.New(seed)
	for i := range buf {
		buf[i] = byte(rng.Uint64())
	}
}

// TestKernelsAgree verifies that the 256-bit-lane, 128-bit-lane, and scalar
// kernels produce identical output for every length in [0, 1024].
func TestKernelsAgree(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for n := 0; n <= 1024; n++ {
		lhs := make([]byte, n)
		rhs := make([]byte, n)
		fill(lhs, uint64(n))
		fill(rhs, uint64(n)+0x1000)

		a := append([]byte(nil), lhs...)
		b := append([]byte(nil), lhs...)
		c := append([]byte(nil), lhs...)

		xor32(a, rhs)
		xor16(b, rhs)
		xorScalar(c, rhs)

		is.Equal(c, a, "xor32 diverges from scalar at length %d", n)
		is.Equal(c, b, "xor16 diverges from scalar at length %d", n)
	}
}

// TestInplaceMatchesReference cross-checks the dispatched kernel against the
// xorsimd package as an independent reference implementation.
func TestInplaceMatchesReference(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, n := range []int{0, 1, 7, 8, 15, 16, 31, 32, 33, 63, 64, 100, 255, 256, 1000, 1024, 4096} {
		lhs := make([]byte, n)
		rhs := make([]byte, n)
		fill(lhs, uint64(n)+1)
		fill(rhs, uint64(n)+2)

		want := make([]byte, n)
		xorsimd.Bytes(want, lhs, rhs)

		got := append([]byte(nil), lhs...)
		Inplace(got, rhs)

		is.Equal(want, got, "Inplace diverges from xorsimd at length %d", n)
	}
}

// TestInplaceSelfInverse verifies xor(xor(a, b), b) == a.
func TestInplaceSelfInverse(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := make([]byte, 777)
	b := make([]byte, 777)
	fill(a, 3)
	fill(b, 4)

	got := append([]byte(nil), a...)
	Inplace(got, b)
	Inplace(got, b)
	is.Equal(a, got)
}

// TestSelfXORIsZero XORs the byte ramp 0..=255 with itself under all three
// kernels and expects all-zero output from each.
func TestSelfXORIsZero(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	ramp := make([]byte, 256)
	for i := range ramp {
		ramp[i] = byte(i)
	}
	zero := make([]byte, 256)

	for name, k := range map[string]func(lhs, rhs []byte){
		"lanes256": xor32,
		"lanes128": xor16,
		"scalar":   xorScalar,
	} {
		lhs := append([]byte(nil), ramp...)
		k(lhs, ramp)
		is.Equal(zero, lhs, "kernel %s did not zero the span", name)
	}
}

// TestInplaceLengthMismatchPanics verifies that unequal spans are treated as
// a programming error.
func TestInplaceLengthMismatchPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Panics(func() {
		Inplace(make([]byte, 8), make([]byte, 9))
	})
}
