// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package blockdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blinklabs-io/powlab/internal/version"
	"github.com/blinklabs-io/powlab/pow"
)

// Limit on error body text included in errors
const maxErrorBodySize = 512

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client fetches block records from a blockchain.info compatible API
type Client struct {
	BaseUrl    string
	HttpClient *http.Client
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		BaseUrl: strings.TrimSuffix(baseUrl, "/"),
		HttpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LatestBlockHash returns the hash of the chain tip
func (c *Client) LatestBlockHash(ctx context.Context) (string, error) {
	var latest struct {
		Hash string `json:"hash"`
	}
	if err := c.getJSON(ctx, "/latestblock?format=json", &latest); err != nil {
		return "", err
	}
	if _, err := pow.ParseHash(latest.Hash); err != nil {
		return "", fmt.Errorf("latest block: %w", err)
	}
	return latest.Hash, nil
}

// FetchBlock returns the block record for the given hash
func (c *Client) FetchBlock(ctx context.Context, hash string) (*RawBlock, error) {
	if _, err := pow.ParseHash(hash); err != nil {
		return nil, err
	}
	ret := &RawBlock{}
	if err := c.getJSON(ctx, fmt.Sprintf("/rawblock/%s?format=json", hash), ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	client := c.HttpClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseUrl+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.GetUserAgent())
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
		return fmt.Errorf(
			"%w: %s: %s",
			ErrUnexpectedStatus,
			res.Status,
			strings.TrimSpace(string(body)),
		)
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
