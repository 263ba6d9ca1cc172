// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package transact

import (
	"github.com/blinklabs-io/powlab/internal/logging"
)

type Outcome struct {
	// Result of C trying to spend A's coin with C's own signature
	MaliciousErr error
	// Result of A paying B
	LegitimateErr error
}

// Walkthrough runs the story of A paying B while C tries to steal A's
// coin, logging each step
func Walkthrough(logger *logging.Logger) (*Outcome, error) {
	narrative := logger.With("actor", "narrative")
	// The network is represented by a single node
	node := NewNode(logger)

	narrative.Info("persons A, B and C each create their wallet")
	wallets := make(map[string]*Wallet, 3)
	for _, name := range []string{"A", "B", "C"} {
		w, err := NewWallet(name)
		if err != nil {
			return nil, err
		}
		wallets[name] = w
		logger.With("actor", "wallet").Infow(
			"wallet created",
			"owner", name,
			"address", w.Address(),
		)
	}
	walletA, walletB, walletC := wallets["A"], wallets["B"], wallets["C"]

	// A received a coin, e.g. by mining a block
	initialTx := CoinbaseTx(walletA.PublicKey())

	narrative.Info("A needs to pay B, after which B delivers a good or service to A")
	narrative.Info("B provides their public key to A")
	narrative.Info("C obtains A's public key and tries to move A's coin to themself")
	narrative.Info("C cannot derive A's private key, so C signs with their own key")
	maliciousTx := walletC.MakeTx(initialTx, walletC.PublicKey())
	narrative.Info("the network checks the spend against A's public key")
	maliciousErr := node.VerifyTx(maliciousTx, walletA.PublicKey())

	narrative.Info("A pays B, signing with their private key")
	legitTx := walletA.MakeTx(initialTx, walletB.PublicKey())
	legitErr := node.VerifyTx(legitTx, walletA.PublicKey())

	return &Outcome{
		MaliciousErr:  maliciousErr,
		LegitimateErr: legitErr,
	}, nil
}
