// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build !amd64

package xor

// pickKernel keeps non-x86 targets on the portable byte loop.
func pickKernel() int {
	return scalar
}
