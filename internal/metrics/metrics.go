// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/blinklabs-io/powlab/internal/logging"
	"github.com/blinklabs-io/powlab/pow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SearchOutcomeFound     = "found"
	SearchOutcomeCached    = "cached"
	SearchOutcomeCancelled = "cancelled"
	SearchOutcomeError     = "error"
)

var (
	headerVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powlab_header_verifications_total",
			Help: "Block headers verified, by proof-of-work outcome",
		},
		[]string{"result"},
	)
	searchAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "powlab_nonce_search_attempts_total",
			Help: "Nonce candidates hashed",
		},
	)
	searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powlab_nonce_searches_total",
			Help: "Nonce searches, by outcome",
		},
		[]string{"outcome"},
	)
	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "powlab_nonce_search_duration_seconds",
			Help:    "Wall clock time of completed nonce searches",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)
)

func ObserveVerification(result *pow.VerificationResult) {
	label := "invalid"
	if result.Valid() {
		label = "valid"
	}
	headerVerifications.WithLabelValues(label).Inc()
}

// ObserveSearchProgress is suitable as a pow.Searcher progress callback
func ObserveSearchProgress(progress pow.SearchProgress) {
	searchAttempts.Add(float64(progress.Attempts))
}

func ObserveSearch(outcome string, elapsed time.Duration) {
	searches.WithLabelValues(outcome).Inc()
	if outcome == SearchOutcomeFound {
		searchDuration.Observe(elapsed.Seconds())
	}
}

// Start serves the metrics endpoint in the background
func Start(address string, port uint) {
	logger := logging.GetLogger()
	listenAddr := fmt.Sprintf("%s:%d", address, port)
	logger.Infof("starting metrics listener on %s", listenAddr)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		server := &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if err := server.ListenAndServe(); err != nil {
			logger.Errorf("failed to start metrics listener: %s", err)
		}
	}()
}
