// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package blockdata

import (
	"fmt"

	"github.com/blinklabs-io/powlab/pow"
)

// RawBlock is a block record as returned by the block data provider.
// Fields other than the header fields are ignored.
type RawBlock struct {
	Hash       FieldValue `json:"hash"`
	PrevBlock  FieldValue `json:"prev_block"`
	Time       FieldValue `json:"time"`
	Version    FieldValue `json:"ver"`
	MerkleRoot FieldValue `json:"mrkl_root"`
	Bits       FieldValue `json:"bits"`
	Nonce      FieldValue `json:"nonce"`
}

type NamedField struct {
	Name  string
	Value FieldValue
}

// Fields returns the record fields in display order
func (b *RawBlock) Fields() []NamedField {
	return []NamedField{
		{Name: "hash", Value: b.Hash},
		{Name: "prev_block", Value: b.PrevBlock},
		{Name: "time", Value: b.Time},
		{Name: "ver", Value: b.Version},
		{Name: "mrkl_root", Value: b.MerkleRoot},
		{Name: "bits", Value: b.Bits},
		{Name: "nonce", Value: b.Nonce},
	}
}

// BlockHash returns the block hash reported by the provider
func (b *RawBlock) BlockHash() (string, error) {
	return b.Hash.hash("hash")
}

// Header converts the record into a block header. Missing fields and
// values that don't fit their header field are rejected.
func (b *RawBlock) Header() (pow.BlockHeader, error) {
	var ret pow.BlockHeader
	version, err := b.Version.uint32("ver")
	if err != nil {
		return ret, err
	}
	prevBlock, err := b.PrevBlock.hash("prev_block")
	if err != nil {
		return ret, err
	}
	merkleRoot, err := b.MerkleRoot.hash("mrkl_root")
	if err != nil {
		return ret, err
	}
	timestamp, err := b.Time.uint32("time")
	if err != nil {
		return ret, err
	}
	bits, err := b.Bits.uint32("bits")
	if err != nil {
		return ret, err
	}
	nonce, err := b.Nonce.uint32("nonce")
	if err != nil {
		return ret, err
	}
	ret.Version = int32(version)
	if ret.PrevBlock, err = pow.ParseHash(prevBlock); err != nil {
		return ret, fmt.Errorf("prev_block: %w", err)
	}
	if ret.MerkleRoot, err = pow.ParseHash(merkleRoot); err != nil {
		return ret, fmt.Errorf("mrkl_root: %w", err)
	}
	ret.Timestamp = timestamp
	ret.Bits = bits
	ret.Nonce = nonce
	return ret, nil
}
