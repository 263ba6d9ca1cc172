// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/powlab/internal/config"
	"github.com/blinklabs-io/powlab/internal/logging"
	"github.com/blinklabs-io/powlab/pow"
	"github.com/dgraph-io/badger/v4"
)

const (
	searchKeyPrefix = "search_"
)

var ErrNotLoaded = errors.New("state not loaded")

// State caches nonce search results so repeated searches for the same
// payload and difficulty return immediately
type State struct {
	db *badger.DB
}

var globalState = &State{}

func (s *State) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.State.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	if cfg.State.Directory == "" {
		badgerOpts = badgerOpts.WithInMemory(true)
	}
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *State) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func searchKey(payload []byte, difficulty uint) []byte {
	// Payloads can be arbitrarily large, so key on their digest
	payloadHash := pow.Sha256(payload)
	return fmt.Appendf(nil, "%s%d_%x", searchKeyPrefix, difficulty, payloadHash)
}

func (s *State) SaveSearchResult(
	payload []byte,
	difficulty uint,
	result *pow.NonceSearchResult,
) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		val := fmt.Sprintf("%d,%s", result.Nonce, result.Hash)
		if err := txn.Set(searchKey(payload, difficulty), []byte(val)); err != nil {
			return err
		}
		return nil
	})
	return err
}

// LookupSearchResult returns a cached search result, or nil if none exists
func (s *State) LookupSearchResult(
	payload []byte,
	difficulty uint,
) (*pow.NonceSearchResult, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}
	var ret *pow.NonceSearchResult
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(searchKey(payload, difficulty))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			resultParts := strings.Split(string(v), ",")
			if len(resultParts) != 2 {
				return fmt.Errorf("malformed search result: %q", v)
			}
			nonce, err := strconv.ParseUint(resultParts[0], 10, 64)
			if err != nil {
				return err
			}
			ret = &pow.NonceSearchResult{
				Nonce: nonce,
				Hash:  resultParts[1],
			}
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// CountSearchResults returns the number of cached search results
func (s *State) CountSearchResults() (int, error) {
	if s.db == nil {
		return 0, ErrNotLoaded
	}
	count := 0
	keyPrefix := []byte(searchKeyPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		// Makes key scans faster
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func GetState() *State {
	return globalState
}

// BadgerLogger is a wrapper type to give our logger the expected interface
type BadgerLogger struct {
	*logging.Logger
}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{
		Logger: logging.GetLogger(),
	}
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	b.Warnf(msg, args...)
}
