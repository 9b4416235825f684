// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package xor provides the in-place byte-span XOR primitive sitting on the
// hot path of the fountain encoder and decoder.
//
// Three kernels produce bit-identical output: a 32-byte-stride kernel
// (256-bit lanes), a 16-byte-stride kernel (128-bit lanes), and a scalar
// byte loop. The lanes are expressed as 64-bit word loads, which compile to
// single wide loads on 64-bit targets. On amd64 the stride is chosen once at
// package load from the host's AVX2/SSE2 feature flags; every other
// architecture takes the scalar path.
//
// This package is part of the experimental "x" modules and may be subject to change.
package xor

import "encoding/binary"

const (
	lanes256 = iota
	lanes128
	scalar
)

// kernel is fixed at package load; see dispatch_amd64.go and dispatch_other.go.
var kernel = pickKernel()

// Inplace XORs rhs into lhs byte-wise: lhs[i] ^= rhs[i] for all i. The two
// spans must have equal length; unequal lengths are a programming error and
// panic.
func Inplace(lhs, rhs []byte) {
	if len(lhs) != len(rhs) {
		panic("xor: length mismatch")
	}
	switch kernel {
	case lanes256:
		xor32(lhs, rhs)
	case lanes128:
		xor16(lhs, rhs)
	default:
		xorScalar(lhs, rhs)
	}
}

// xor32 processes 32-byte strides as four 64-bit lanes, then hands the tail
// to the scalar loop.
func xor32(lhs, rhs []byte) {
	n := len(lhs)
	i := 0
	for ; i+32 <= n; i += 32 {
		binary.LittleEndian.PutUint64(lhs[i:], binary.LittleEndian.Uint64(lhs[i:])^binary.LittleEndian.Uint64(rhs[i:]))
		binary.LittleEndian.PutUint64(lhs[i+8:], binary.LittleEndian.Uint64(lhs[i+8:])^binary.LittleEndian.Uint64(rhs[i+8:]))
		binary.LittleEndian.PutUint64(lhs[i+16:], binary.LittleEndian.Uint64(lhs[i+16:])^binary.LittleEndian.Uint64(rhs[i+16:]))
		binary.LittleEndian.PutUint64(lhs[i+24:], binary.LittleEndian.Uint64(lhs[i+24:])^binary.LittleEndian.Uint64(rhs[i+24:]))
	}
	xorScalar(lhs[i:], rhs[i:])
}

// xor16 processes 16-byte strides as two 64-bit lanes, then hands the tail
// to the scalar loop.
func xor16(lhs, rhs []byte) {
	n := len(lhs)
	i := 0
	for ; i+16 <= n; i += 16 {
		binary.LittleEndian.PutUint64(lhs[i:], binary.LittleEndian.Uint64(lhs[i:])^binary.LittleEndian.Uint64(rhs[i:]))
		binary.LittleEndian.PutUint64(lhs[i+8:], binary.LittleEndian.Uint64(lhs[i+8:])^binary.LittleEndian.Uint64(rhs[i+8:]))
	}
	xorScalar(lhs[i:], rhs[i:])
}

// xorScalar is the portable byte-wise loop and the tail handler for the
// strided kernels.
func xorScalar(lhs, rhs []byte) {
	for i := range lhs {
		lhs[i] ^= rhs[i]
	}
}
