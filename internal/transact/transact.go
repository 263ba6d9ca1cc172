// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package transact walks through how signatures let the network accept a
// spend from the coin owner and reject a forged one
package transact

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/powlab/internal/logging"
	"github.com/blinklabs-io/powlab/pow"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // HASH160 needs RIPEMD-160
)

const coinbaseInput = "No input tx"

var (
	ErrMissingSignature = errors.New("transaction is not signed")
	ErrInvalidSignature = errors.New("invalid transaction signature")
)

// Tx is a simplified transaction that moves one coin to a recipient
type Tx struct {
	RecipientPubKey  string
	HashForSignature []byte
	Signature        *ecdsa.Signature
}

// Reference identifies the transaction when it is spent
func (t *Tx) Reference() string {
	return string(t.HashForSignature)
}

type Wallet struct {
	Name       string
	privateKey *btcec.PrivateKey
}

func NewWallet(name string) (*Wallet, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Wallet{
		Name:       name,
		privateKey: privateKey,
	}, nil
}

func (w *Wallet) PublicKey() *btcec.PublicKey {
	return w.privateKey.PubKey()
}

// Address returns the HASH160 of the wallet public key
func (w *Wallet) Address() string {
	return Address(w.PublicKey())
}

// MakeTx spends the output of tx to recipient, signed with this wallet's key
func (w *Wallet) MakeTx(spend *Tx, recipient *btcec.PublicKey) *Tx {
	recipientKey := FormatPubKey(recipient)
	hashForSignature := signatureHash(spend.Reference() + recipientKey)
	digest := pow.Sha256(hashForSignature)
	return &Tx{
		RecipientPubKey:  recipientKey,
		HashForSignature: hashForSignature,
		Signature:        ecdsa.Sign(w.privateKey, digest[:]),
	}
}

// CoinbaseTx creates an unsigned transaction paying a freshly mined coin
func CoinbaseTx(recipient *btcec.PublicKey) *Tx {
	recipientKey := FormatPubKey(recipient)
	return &Tx{
		RecipientPubKey:  recipientKey,
		HashForSignature: signatureHash(coinbaseInput + recipientKey),
	}
}

// The signed message is the hex SHA-256 of the transaction data
func signatureHash(txData string) []byte {
	digest := pow.Sha256([]byte(txData))
	return []byte(hex.EncodeToString(digest[:]))
}

// FormatPubKey returns the hex compressed SEC encoding of a public key
func FormatPubKey(pubKey *btcec.PublicKey) string {
	return hex.EncodeToString(pubKey.SerializeCompressed())
}

func Address(pubKey *btcec.PublicKey) string {
	shaDigest := pow.Sha256(pubKey.SerializeCompressed())
	h := ripemd160.New()
	h.Write(shaDigest[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Node checks transaction signatures against the owner's public key
type Node struct {
	logger *logging.Logger
}

func NewNode(logger *logging.Logger) *Node {
	return &Node{
		logger: logger.With("actor", "node"),
	}
}

func (n *Node) VerifyTx(tx *Tx, senderPubKey *btcec.PublicKey) error {
	if tx.Signature == nil {
		n.logger.Warn("transaction rejected because it is not signed")
		return ErrMissingSignature
	}
	digest := pow.Sha256(tx.HashForSignature)
	if !tx.Signature.Verify(digest[:], senderPubKey) {
		n.logger.Warn("transaction rejected because the signature is invalid")
		return ErrInvalidSignature
	}
	n.logger.Info("transaction verified")
	return nil
}
