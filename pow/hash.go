// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/minio/sha256-simd"
)

// HashHexLength is the length of a hash in its display form
const HashHexLength = chainhash.MaxHashStringSize

var (
	ErrInvalidHashLength = errors.New("invalid hash length")
	ErrInvalidHashHex    = errors.New("invalid hash hex")
)

func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSha256 returns SHA256(SHA256(data)) in hash-function byte order
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// ReverseBytes returns a reversed copy of the input
func ReverseBytes(data []byte) []byte {
	ret := make([]byte, len(data))
	for i, b := range data {
		ret[len(data)-1-i] = b
	}
	return ret
}

// DisplayHex renders a digest in the conventional display form: byte
// order reversed, lowercase hex
func DisplayHex(digest [32]byte) string {
	return hex.EncodeToString(ReverseBytes(digest[:]))
}

// ParseHash parses a hash given in display form. The returned value holds
// the bytes in wire order, which is the reverse of the display string.
func ParseHash(s string) (chainhash.Hash, error) {
	if len(s) != HashHexLength {
		return chainhash.Hash{}, fmt.Errorf(
			"%w: got %d hex digits, want %d",
			ErrInvalidHashLength,
			len(s),
			HashHexLength,
		)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return chainhash.Hash{}, fmt.Errorf("%w: %s", ErrInvalidHashHex, err)
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("%w: %s", ErrInvalidHashHex, err)
	}
	return *h, nil
}

// MustParseHash is like ParseHash but panics on malformed input
func MustParseHash(s string) chainhash.Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(fmt.Sprintf("pow: MustParseHash(%q): %s", s, err))
	}
	return h
}
