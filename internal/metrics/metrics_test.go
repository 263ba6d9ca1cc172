// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/blinklabs-io/powlab/pow"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveVerification(t *testing.T) {
	valid := testutil.ToFloat64(headerVerifications.WithLabelValues("valid"))
	invalid := testutil.ToFloat64(headerVerifications.WithLabelValues("invalid"))

	header := pow.BlockHeader{
		Version:    1,
		MerkleRoot: pow.MustParseHash("4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"),
		Timestamp:  1231006505,
		Bits:       0x1d00ffff,
		Nonce:      2083236893,
	}
	ObserveVerification(pow.Verify(header))
	header.Nonce = 0
	ObserveVerification(pow.Verify(header))

	assert.Equal(t, valid+1, testutil.ToFloat64(headerVerifications.WithLabelValues("valid")))
	assert.Equal(t, invalid+1, testutil.ToFloat64(headerVerifications.WithLabelValues("invalid")))
}

func TestObserveSearch(t *testing.T) {
	attempts := testutil.ToFloat64(searchAttempts)
	found := testutil.ToFloat64(searches.WithLabelValues(SearchOutcomeFound))

	s := &pow.Searcher{Workers: 1, Progress: ObserveSearchProgress}
	start := time.Now()
	result, err := s.Find(context.Background(), []byte("Hello world!"), 5)
	require.NoError(t, err)
	ObserveSearch(SearchOutcomeFound, time.Since(start))

	assert.Equal(t, attempts+float64(result.Nonce+1), testutil.ToFloat64(searchAttempts))
	assert.Equal(t, found+1, testutil.ToFloat64(searches.WithLabelValues(SearchOutcomeFound)))
}
