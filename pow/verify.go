// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"math/big"
	"strings"
)

// VerificationResult describes the outcome of checking a header's
// proof-of-work. An invalid header is reported with HashBelowTarget set
// to false rather than as an error.
type VerificationResult struct {
	ReconstructedHash string `json:"reconstructed_hash"`
	// HashMatchesReference is nil when no reference hash was supplied
	HashMatchesReference *bool        `json:"hash_matches_reference,omitempty"`
	Target               *big.Int     `json:"target"`
	HashAsInteger        *big.Int     `json:"hash_as_integer"`
	HashBelowTarget      bool         `json:"hash_below_target"`
	Bits                 uint32       `json:"bits"`
	Compact              CompactParts `json:"-"`
}

// Verify rebuilds the block hash from the header fields and checks it
// against the target encoded in the header's Bits field
func Verify(h BlockHeader) *VerificationResult {
	digest := DoubleSha256(h.Serialize())
	displayHash := ReverseBytes(digest[:])
	target := CompactToTarget(h.Bits)
	hashInt := new(big.Int).SetBytes(displayHash)
	return &VerificationResult{
		ReconstructedHash: DisplayHex(digest),
		Target:            target,
		HashAsInteger:     hashInt,
		HashBelowTarget:   hashInt.Cmp(target) < 0,
		Bits:              h.Bits,
		Compact:           SplitCompact(h.Bits),
	}
}

// VerifyWithReference is like Verify but also compares the rebuilt hash
// against a hash obtained elsewhere (case-insensitive)
func VerifyWithReference(h BlockHeader, expectedHash string) *VerificationResult {
	ret := Verify(h)
	matches := strings.EqualFold(ret.ReconstructedHash, expectedHash)
	ret.HashMatchesReference = &matches
	return ret
}

// Valid reports whether the header carries valid proof-of-work and, when a
// reference hash was given, whether it matched
func (r *VerificationResult) Valid() bool {
	if r.HashMatchesReference != nil && !*r.HashMatchesReference {
		return false
	}
	return r.HashBelowTarget
}
