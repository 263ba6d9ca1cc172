// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"math/big"
)

const (
	compactMantissaMask = 0x00ffffff
	compactMantissaSize = 3
)

// CompactParts holds the two halves of a compact (nBits) value
type CompactParts struct {
	Exponent uint8
	Mantissa uint32
}

// SplitCompact separates a compact value into its exponent (high byte)
// and mantissa (low 3 bytes)
func SplitCompact(bits uint32) CompactParts {
	return CompactParts{
		Exponent: uint8(bits >> 24),
		Mantissa: bits & compactMantissaMask,
	}
}

// CompactToTarget converts a Bitcoin compact (nBits) value to a
// target. The first byte is the exponent, the next 3
// bytes are the mantissa. Target = mantissa * 2^(8*(exp-3)).
//
// An exponent below 3 shifts the mantissa right instead of left. The
// mantissa sign bit (0x00800000) is treated as part of the magnitude,
// so negative targets are never produced.
func CompactToTarget(bits uint32) *big.Int {
	parts := SplitCompact(bits)
	exp := uint(parts.Exponent)
	target := new(big.Int).SetUint64(uint64(parts.Mantissa))
	if exp < compactMantissaSize {
		target.Rsh(target, 8*(compactMantissaSize-exp))
	} else {
		target.Lsh(target, 8*(exp-compactMantissaSize))
	}
	return target
}
