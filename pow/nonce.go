// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxDifficulty is the number of bits in a SHA-256 digest
	MaxDifficulty = 256

	DefaultProgressInterval = 1_000_000

	// Number of attempts between context checks
	pollInterval = 1024

	// Longest decimal rendering of a uint64
	maxNonceDigits = 20
)

var ErrDifficultyRange = errors.New("difficulty out of range")

type NonceSearchResult struct {
	Nonce uint64 `json:"nonce"`
	Hash  string `json:"hash"`
}

// SearchProgress is passed to the Searcher progress callback
type SearchProgress struct {
	Worker int
	// Attempts since the previous report from this worker
	Attempts uint64
	// Last nonce tried by this worker
	Nonce uint64
}

// Searcher looks for the lowest nonce n such that SHA256(payload || n),
// with n rendered in decimal, starts with a given number of zero bits.
// Workers interleave the nonce space, and the result is the same as a
// single-worker search regardless of the worker count.
type Searcher struct {
	Workers          int
	ProgressInterval uint64
	Progress         func(SearchProgress)
}

// FindNonce runs a single-worker search. The search has no upper bound;
// cancel the context to stop it.
func FindNonce(
	ctx context.Context,
	payload []byte,
	difficulty uint,
) (*NonceSearchResult, error) {
	s := &Searcher{Workers: 1}
	return s.Find(ctx, payload, difficulty)
}

func (s *Searcher) Find(
	ctx context.Context,
	payload []byte,
	difficulty uint,
) (*NonceSearchResult, error) {
	if difficulty > MaxDifficulty {
		return nil, fmt.Errorf(
			"%w: %d exceeds %d",
			ErrDifficultyRange,
			difficulty,
			MaxDifficulty,
		)
	}
	workers := max(s.Workers, 1)
	var best atomic.Uint64
	best.Store(math.MaxUint64)
	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < workers; worker++ {
		worker := worker
		g.Go(func() error {
			return s.search(gctx, payload, difficulty, worker, workers, &best)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	nonce := best.Load()
	digest := Sha256(NonceCandidate(payload, nonce))
	return &NonceSearchResult{
		Nonce: nonce,
		Hash:  hex.EncodeToString(digest[:]),
	}, nil
}

func (s *Searcher) search(
	ctx context.Context,
	payload []byte,
	difficulty uint,
	worker int,
	step int,
	best *atomic.Uint64,
) error {
	interval := s.ProgressInterval
	if interval == 0 {
		interval = DefaultProgressInterval
	}
	var attempts, unreported uint64
	var nonce uint64
	if s.Progress != nil {
		defer func() {
			if unreported > 0 {
				s.Progress(SearchProgress{Worker: worker, Attempts: unreported, Nonce: nonce})
			}
		}()
	}
	buf := make([]byte, len(payload), len(payload)+maxNonceDigits)
	copy(buf, payload)
	for nonce = uint64(worker); nonce < best.Load(); nonce += uint64(step) {
		if attempts%pollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		attempts++
		unreported++
		digest := Sha256(strconv.AppendUint(buf[:len(payload)], nonce, 10))
		if MeetsDifficulty(digest, difficulty) {
			// Keep the lowest nonce found by any worker
			for {
				cur := best.Load()
				if nonce >= cur || best.CompareAndSwap(cur, nonce) {
					break
				}
			}
			return nil
		}
		if s.Progress != nil && unreported == interval {
			s.Progress(SearchProgress{Worker: worker, Attempts: unreported, Nonce: nonce})
			unreported = 0
		}
	}
	return nil
}

// NonceCandidate returns payload followed by the decimal form of nonce
func NonceCandidate(payload []byte, nonce uint64) []byte {
	ret := make([]byte, len(payload), len(payload)+maxNonceDigits)
	copy(ret, payload)
	return strconv.AppendUint(ret, nonce, 10)
}

// LeadingZeroBits counts the zero bits at the start of a digest
func LeadingZeroBits(digest [32]byte) int {
	count := 0
	for _, b := range digest {
		if b != 0 {
			return count + bits.LeadingZeros8(b)
		}
		count += 8
	}
	return count
}

// MeetsDifficulty reports whether the digest starts with at least
// difficulty zero bits
func MeetsDifficulty(digest [32]byte, difficulty uint) bool {
	return uint(LeadingZeroBits(digest)) >= difficulty
}

// BelowThreshold reports whether the digest, read as a big-endian
// integer, is below 2^(256-difficulty). This accepts exactly the
// digests that MeetsDifficulty accepts.
func BelowThreshold(digest [32]byte, difficulty uint) bool {
	if difficulty == 0 {
		// 2^256 does not fit, and every digest is below it
		return true
	}
	if difficulty > MaxDifficulty {
		return false
	}
	threshold := new(uint256.Int).Lsh(uint256.NewInt(1), MaxDifficulty-difficulty)
	value := new(uint256.Int).SetBytes32(digest[:])
	return value.Lt(threshold)
}

// BinaryString renders a digest as 256 binary digits, zero padded
func BinaryString(digest [32]byte) string {
	var sb strings.Builder
	sb.Grow(len(digest) * 8)
	for _, b := range digest {
		fmt.Fprintf(&sb, "%08b", b)
	}
	return sb.String()
}
