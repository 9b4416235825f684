// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixafter/fountain/x/rand/xoshiro"
)

// FuzzRoundTrip fuzzes the encode/decode loop over message length, chunk
// size, stream seed, and loss rate, expecting byte-exact reconstruction
// every time.
func FuzzRoundTrip(f *testing.F) {
	f.Add(uint16(1024), uint16(64), uint64(1), uint8(0))
	f.Add(uint16(8), uint16(2), uint64(2), uint8(10))
	f.Add(uint16(1300), uint16(128), uint64(3), uint8(50))
	f.Fuzz(func(t *testing.T, length, chunkSize uint16, seed uint64, lossPct uint8) {
		if length == 0 || length > 8192 {
			t.Skip()
		}
		if chunkSize == 0 || int(chunkSize) > int(length) {
			t.Skip()
		}
		loss := float64(lossPct%80) / 100

		is := assert.New(t)
		msg := testMessage(int(length), seed)

		enc, err := NewEncoder(msg, int(chunkSize), WithSeed(seed))
		is.NoError(err)
		dec, err := NewDecoder(int(length), int(chunkSize))
		is.NoError(err)

		lossRNG := xoshiro.New(seed ^ 0x5ca1ab1e)
		budget := 500*dec.K() + 5000
		for i := 0; i < budget; i++ {
			drop := enc.Next()
			if lossRNG.Float64() < loss {
				continue
			}
			res, err := dec.Catch(drop)
			is.NoError(err)
			if res.Finished {
				is.Equal(msg, res.Data)
				return
			}
		}
		t.Fatalf("decoder did not finish within %d droplets (L=%d s=%d loss=%v)",
			budget, length, chunkSize, loss)
	})
}
