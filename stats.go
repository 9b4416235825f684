// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

// Statistics is a snapshot of decoder progress, returned on every catch.
// It is purely observational and never influences decoding.
type Statistics struct {
	// Droplets is the number of droplets received so far, counting
	// redundant and malformed ones.
	Droplets int

	// Chunks is the number of source chunks k.
	Chunks int

	// Unknown is the number of chunks not yet recovered.
	Unknown int

	// Overhead is 100 * Droplets / Chunks; 100 is the information-theoretic
	// floor.
	Overhead float64
}
