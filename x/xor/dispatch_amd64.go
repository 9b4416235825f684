// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build amd64

package xor

import "github.com/templexxx/cpu"

// pickKernel selects the stride width from the host's vector features.
// amd64 guarantees SSE2, so the scalar arm is unreachable here; it stays as
// the shared tail handler.
func pickKernel() int {
	switch {
	case cpu.X86.HasAVX2:
		return lanes256
	case cpu.X86.HasSSE2:
		return lanes128
	default:
		return scalar
	}
}
