// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package pow_test

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blinklabs-io/powlab/pow"
)

var nonceTestDefs = []struct {
	payload      string
	difficulty   uint
	expectedHash string
	expected     uint64
}{
	{
		payload:      "Hello world!",
		difficulty:   0,
		expected:     0,
		expectedHash: "e1dffbd4c9d12a16bd1f1c9124395077e04d5ec8b6604a2fc53b6ba8047e047d",
	},
	{
		payload:      "Hello world!",
		difficulty:   1,
		expected:     1,
		expectedHash: "1602fef23ff0c65075a3bd038dfb546a161308e08ba10ab9a06873561b818500",
	},
	{
		payload:      "Hello world!",
		difficulty:   5,
		expected:     23,
		expectedHash: "03e5fd995bf222866e9e71bf7e9c455f5a8f6590e6ffebc7036f57ca507c6eb7",
	},
	{
		payload:      "Hello world!",
		difficulty:   8,
		expected:     88,
		expectedHash: "00bb96a7886de3ee2bf87578190045cd979ff2ab1349786b9486c06bfa77e6f0",
	},
	{
		payload:      "Hello world!",
		difficulty:   12,
		expected:     205,
		expectedHash: "00080e3e9b160955a18a3a8b3efe0d68dee61931b806b2841c740637d88c9094",
	},
}

func TestFindNonce(t *testing.T) {
	for _, testDef := range nonceTestDefs {
		result, err := pow.FindNonce(
			context.Background(),
			[]byte(testDef.payload),
			testDef.difficulty,
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if result.Nonce != testDef.expected || result.Hash != testDef.expectedHash {
			t.Fatalf(
				"FindNonce(%q, %d): got (%d, %s), want (%d, %s)",
				testDef.payload,
				testDef.difficulty,
				result.Nonce,
				result.Hash,
				testDef.expected,
				testDef.expectedHash,
			)
		}
	}
}

func TestSearcherWorkersMatchSequential(t *testing.T) {
	for _, workers := range []int{2, 3, 4, 8} {
		s := &pow.Searcher{Workers: workers}
		for _, testDef := range nonceTestDefs {
			result, err := s.Find(
				context.Background(),
				[]byte(testDef.payload),
				testDef.difficulty,
			)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if result.Nonce != testDef.expected || result.Hash != testDef.expectedHash {
				t.Fatalf(
					"%d workers, difficulty %d: got (%d, %s), want (%d, %s)",
					workers,
					testDef.difficulty,
					result.Nonce,
					result.Hash,
					testDef.expected,
					testDef.expectedHash,
				)
			}
		}
	}
}

func TestFindNonceThresholdEquivalence(t *testing.T) {
	payloads := []string{"Hello world!", "", "powlab", "\x00\x01\x02"}
	for _, payload := range payloads {
		for difficulty := uint(0); difficulty <= 10; difficulty++ {
			result, err := pow.FindNonce(context.Background(), []byte(payload), difficulty)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			digestBytes, err := hex.DecodeString(result.Hash)
			if err != nil {
				t.Fatalf("unexpected error decoding hash: %s", err)
			}
			digest := [32]byte(digestBytes)
			if digest != pow.Sha256(pow.NonceCandidate([]byte(payload), result.Nonce)) {
				t.Fatalf("hash %s does not match payload %q and nonce %d", result.Hash, payload, result.Nonce)
			}
			binary := pow.BinaryString(digest)
			if !strings.HasPrefix(binary, strings.Repeat("0", int(difficulty))) {
				t.Fatalf("binary form %s lacks %d leading zeros", binary, difficulty)
			}
			if pow.LeadingZeroBits(digest) < int(difficulty) {
				t.Fatalf("leading zero count %d below difficulty %d", pow.LeadingZeroBits(digest), difficulty)
			}
			threshold := new(big.Int).Lsh(big.NewInt(1), 256-difficulty)
			if new(big.Int).SetBytes(digest[:]).Cmp(threshold) >= 0 {
				t.Fatalf("hash %s not below 2^(256-%d)", result.Hash, difficulty)
			}
			if !pow.BelowThreshold(digest, difficulty) {
				t.Fatalf("BelowThreshold rejected accepted hash %s", result.Hash)
			}
			// Every earlier nonce must have been rejected
			for nonce := uint64(0); nonce < result.Nonce; nonce++ {
				earlier := pow.Sha256(pow.NonceCandidate([]byte(payload), nonce))
				if pow.MeetsDifficulty(earlier, difficulty) {
					t.Fatalf("nonce %d also satisfies difficulty %d, want lowest", nonce, difficulty)
				}
			}
		}
	}
}

func TestDifficultyFormsAgree(t *testing.T) {
	digests := [][32]byte{
		{},
		{0xff},
		{0x00, 0x01},
		{0x00, 0x00, 0x80},
		{0x0f, 0xff, 0xff},
		pow.Sha256([]byte("Hello world!23")),
		pow.Sha256([]byte("Hello world!88")),
	}
	last := [32]byte{}
	last[31] = 0x01
	digests = append(digests, last)
	for _, digest := range digests {
		binary := pow.BinaryString(digest)
		if len(binary) != 256 {
			t.Fatalf("got binary length %d, want 256", len(binary))
		}
		for difficulty := uint(0); difficulty <= pow.MaxDifficulty; difficulty++ {
			byPrefix := strings.HasPrefix(binary, strings.Repeat("0", int(difficulty)))
			byCount := pow.MeetsDifficulty(digest, difficulty)
			byThreshold := pow.BelowThreshold(digest, difficulty)
			if byPrefix != byCount || byPrefix != byThreshold {
				t.Fatalf(
					"digest %x difficulty %d: prefix=%v count=%v threshold=%v",
					digest,
					difficulty,
					byPrefix,
					byCount,
					byThreshold,
				)
			}
		}
	}
}

func TestLeadingZeroBits(t *testing.T) {
	testDefs := []struct {
		digest   [32]byte
		expected int
	}{
		{digest: [32]byte{0x80}, expected: 0},
		{digest: [32]byte{0x01}, expected: 7},
		{digest: [32]byte{0x00, 0x40}, expected: 9},
		{digest: [32]byte{}, expected: 256},
	}
	for _, testDef := range testDefs {
		if got := pow.LeadingZeroBits(testDef.digest); got != testDef.expected {
			t.Fatalf("LeadingZeroBits(%x): got %d, want %d", testDef.digest, got, testDef.expected)
		}
	}
}

func TestFindNonceDifficultyRange(t *testing.T) {
	_, err := pow.FindNonce(context.Background(), []byte("x"), pow.MaxDifficulty+1)
	if !errors.Is(err, pow.ErrDifficultyRange) {
		t.Fatalf("expected ErrDifficultyRange, got %v", err)
	}
}

func TestFindNonceCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s := &pow.Searcher{Workers: 2}
	// Practically unreachable difficulty
	_, err := s.Find(ctx, []byte("Hello world!"), 200)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestSearcherProgress(t *testing.T) {
	var attempts atomic.Uint64
	var reports atomic.Int64
	s := &pow.Searcher{
		Workers:          1,
		ProgressInterval: 10,
		Progress: func(p pow.SearchProgress) {
			reports.Add(1)
			attempts.Add(p.Attempts)
		},
	}
	result, err := s.Find(context.Background(), []byte("Hello world!"), 5)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Nonces 0 through 23 were tried
	if attempts.Load() != result.Nonce+1 {
		t.Fatalf("got %d reported attempts, want %d", attempts.Load(), result.Nonce+1)
	}
	if reports.Load() != 3 {
		t.Fatalf("got %d progress reports, want 3", reports.Load())
	}
}
