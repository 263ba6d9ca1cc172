// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package reorg estimates the success probability of a double spend via
// chain reorganization, following section 11 of the Bitcoin whitepaper
package reorg

import (
	"errors"
	"fmt"
	"math"
)

type Formula string

const (
	// FormulaOriginal is the whitepaper formula, which counts the attacker
	// catching up with the honest chain as a success
	FormulaOriginal Formula = "original"
	// FormulaModified requires the attacker chain to overtake the honest
	// chain by one block
	FormulaModified Formula = "modified"
)

var (
	ErrInvalidShare   = errors.New("attacker hashrate share must be in [0, 1]")
	ErrInvalidBlocks  = errors.New("confirmation count must not be negative")
	ErrInvalidFormula = errors.New("invalid formula")
)

// Probability returns the chance that an attacker holding share q of the
// network hashrate rewrites a transaction after z confirmations. An
// attacker holding at least half of the hashrate always succeeds.
func Probability(q float64, z int, formula Formula) (float64, error) {
	if q < 0 || q > 1 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidShare, q)
	}
	if z < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBlocks, z)
	}
	var extra int
	switch formula {
	case FormulaOriginal:
		extra = 0
	case FormulaModified:
		extra = 1
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
	}
	p := 1 - q
	if q >= p {
		// The attacker eventually catches up and overtakes with certainty
		return 1, nil
	}
	// Expected number of attacker blocks while the honest chain mines z
	lambda := float64(z) * (q / p)
	prob := 1.0
	for k := 0; k <= z; k++ {
		// Chance the attacker has mined exactly k blocks
		poisson := math.Exp(-lambda)
		for i := 1; i <= k; i++ {
			poisson *= lambda / float64(i)
		}
		failure := 1 - math.Pow(q/p, float64(z-k+extra))
		prob -= poisson * failure
	}
	return prob, nil
}
