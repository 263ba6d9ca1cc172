// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/blinklabs-io/powlab/pow"
)

func TestCompactToTarget(t *testing.T) {
	testDefs := []struct {
		bits     uint32
		expected string
	}{
		{
			// 0x1d00ffff (Bitcoin genesis)
			bits:     0x1d00ffff,
			expected: "00000000ffff0000000000000000000000000000000000000000000000000000",
		},
		{
			// Exponent 3, mantissa 0x030000
			bits:     0x03030000,
			expected: "030000",
		},
		{
			// Exponent 3 with the sign bit set stays a plain magnitude
			bits:     0x03923456,
			expected: "923456",
		},
		{
			// Exponent 1 (shift right case)
			bits:     0x01003456,
			expected: "00",
		},
		{
			// Exponent 2 keeps the top two mantissa bytes
			bits:     0x02123456,
			expected: "1234",
		},
		{
			// Exponent 0 drops the whole mantissa
			bits:     0x00ffffff,
			expected: "00",
		},
		{
			// Exponent 4, mantissa 0x123456
			bits:     0x04123456,
			expected: "12345600",
		},
	}
	for _, td := range testDefs {
		target := pow.CompactToTarget(td.bits)
		got := hex.EncodeToString(target.Bytes())
		expectedInt := new(big.Int)
		expectedInt.SetString(td.expected, 16)
		if target.Cmp(expectedInt) != 0 {
			t.Fatalf(
				"CompactToTarget(0x%08x): got %s, want %s",
				td.bits,
				got,
				td.expected,
			)
		}
	}
}

func TestCompactToTargetBlockBits(t *testing.T) {
	// Bits of mainnet block 000000000000000000006ac894c3d62bd4c37ba926e0580e5c99ca4466aee835
	expected, _ := new(big.Int).SetString(
		"263561359269705708657179707992723614632672251070119936",
		10,
	)
	target := pow.CompactToTarget(0x1702c070)
	if target.Cmp(expected) != 0 {
		t.Fatalf("got %s, want %s", target, expected)
	}
}

func TestCompactToTargetExponentThree(t *testing.T) {
	for _, mantissa := range []uint32{0, 1, 0x7fffff, 0x800000, 0xffffff} {
		bits := 0x03000000 | mantissa
		target := pow.CompactToTarget(bits)
		if !target.IsUint64() || target.Uint64() != uint64(mantissa) {
			t.Fatalf(
				"CompactToTarget(0x%08x): got %s, want %d",
				bits,
				target,
				mantissa,
			)
		}
	}
}

func TestCompactToTargetMonotonic(t *testing.T) {
	mantissas := []uint32{0, 1, 0xff, 0x1234, 0xffff, 0x7fffff, 0x800000, 0xfffffe, 0xffffff}
	for exp := uint32(3); exp <= 0x20; exp++ {
		var prev *big.Int
		for _, mantissa := range mantissas {
			target := pow.CompactToTarget(exp<<24 | mantissa)
			if prev != nil && target.Cmp(prev) < 0 {
				t.Fatalf(
					"target decreased for exponent %d: mantissa 0x%06x gave %s after %s",
					exp,
					mantissa,
					target,
					prev,
				)
			}
			prev = target
		}
	}
}

func TestCompactToTargetExponentScaling(t *testing.T) {
	factor := big.NewInt(256)
	for _, mantissa := range []uint32{1, 0xffff, 0x02c070, 0xffffff} {
		for exp := uint32(3); exp < 0xff; exp++ {
			lower := pow.CompactToTarget(exp<<24 | mantissa)
			upper := pow.CompactToTarget((exp+1)<<24 | mantissa)
			want := new(big.Int).Mul(lower, factor)
			if upper.Cmp(want) != 0 {
				t.Fatalf(
					"mantissa 0x%06x exponent %d: got %s, want %s",
					mantissa,
					exp+1,
					upper,
					want,
				)
			}
		}
	}
}

func TestSplitCompact(t *testing.T) {
	parts := pow.SplitCompact(0x1702c070)
	if parts.Exponent != 0x17 || parts.Mantissa != 0x02c070 {
		t.Fatalf(
			"got exponent 0x%02x mantissa 0x%06x, want 0x17 0x02c070",
			parts.Exponent,
			parts.Mantissa,
		)
	}
}
