// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeaderSize is the length of a serialized block header
const BlockHeaderSize = 80

// BlockHeader holds the header fields that go into the block hash.
// The hash fields hold their bytes in wire order, so the struct layout
// matches the serialized header exactly.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

func (h *BlockHeader) Encode(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, h)
}

func (h *BlockHeader) Decode(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		return err
	}
	return nil
}

// Serialize returns the canonical 80-byte header
func (h BlockHeader) Serialize() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderSize))
	// Writing fixed-size fields to a bytes.Buffer cannot fail
	_ = h.Encode(buf)
	return buf.Bytes()
}

// Hash returns the double SHA-256 of the serialized header. The
// chainhash.Hash String() method gives the display form.
func (h BlockHeader) Hash() chainhash.Hash {
	return chainhash.Hash(DoubleSha256(h.Serialize()))
}
