// Copyright 2025 AptosBB Authors
// This file is part of AptosBB, a transaction-execution harness for Aptos.
//
// AptosBB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// AptosBB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with AptosBB. If not, see <http://www.gnu.org/licenses/>.

// Package client talks to a remote fullnode's REST API. It performs single
// round-trips with no retry logic; a network failure propagates to the
// caller as ErrConnectivity.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aptosbb/aptosbb/types"
)

var (
	// ErrConnectivity is reported when the node is unreachable or returns
	// malformed metadata. Fatal to harness construction.
	ErrConnectivity = errors.New("cannot reach remote node")

	// ErrStateValueNotFound is reported when the queried state slot does
	// not exist at the pinned version.
	ErrStateValueNotFound = errors.New("state value not found")
)

// DefaultTimeout bounds every round-trip so a hung node cannot block
// harness construction indefinitely.
const DefaultTimeout = 30 * time.Second

const bcsContentType = "application/x-bcs"

// LedgerInfo is the ledger metadata returned by the node.
type LedgerInfo struct {
	ChainID        types.ChainID
	Version        uint64
	TimestampUsecs uint64
}

// TimestampSecs converts the ledger timestamp to whole seconds.
func (i LedgerInfo) TimestampSecs() uint64 {
	return i.TimestampUsecs / 1_000_000
}

// Client is a minimal fullnode REST client. An API key, when set, is
// forwarded as a bearer credential; it changes rate limits, not protocol
// semantics.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey forwards key as the authentication credential of every
// request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a client for the node at baseURL (e.g.
// "https://fullnode.mainnet.aptoslabs.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ledgerInfoResponse mirrors the JSON shape of GET /v1. The node encodes
// 64-bit values as strings.
type ledgerInfoResponse struct {
	ChainID         uint8  `json:"chain_id"`
	LedgerVersion   string `json:"ledger_version"`
	LedgerTimestamp string `json:"ledger_timestamp"`
}

// LedgerInfo fetches the current ledger metadata in one round-trip.
func (c *Client) LedgerInfo(ctx context.Context) (*LedgerInfo, error) {
	body, err := c.get(ctx, "/v1", "application/json")
	if err != nil {
		return nil, err
	}

	var resp ledgerInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(ErrConnectivity, "malformed ledger metadata")
	}
	version, err := strconv.ParseUint(resp.LedgerVersion, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrConnectivity, "malformed ledger version %q", resp.LedgerVersion)
	}
	timestamp, err := strconv.ParseUint(resp.LedgerTimestamp, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrConnectivity, "malformed ledger timestamp %q", resp.LedgerTimestamp)
	}

	return &LedgerInfo{
		ChainID:        types.ChainID(resp.ChainID),
		Version:        version,
		TimestampUsecs: timestamp,
	}, nil
}

// StateValue fetches the raw value at key as of the pinned ledger version.
// Both resource derivation schemes resolve through the resource endpoint;
// modules and table items use their own endpoints.
func (c *Client) StateValue(ctx context.Context, key types.StateKey, version uint64) ([]byte, error) {
	var path string
	switch key.Kind() {
	case types.StateKeyResource, types.StateKeyAccessPath:
		path = fmt.Sprintf("/v1/accounts/%s/resource/%s", key.Address().Hex(), url.PathEscape(key.Tag().String()))
	case types.StateKeyModule:
		path = fmt.Sprintf("/v1/accounts/%s/module/%s", key.Address().Hex(), key.ModuleName())
	case types.StateKeyTableItem:
		return nil, errors.Newf("table items cannot be fetched by state key")
	default:
		return nil, errors.Newf("unsupported state key kind %d", key.Kind())
	}
	path += fmt.Sprintf("?ledger_version=%d", version)

	return c.get(ctx, path, bcsContentType)
}

func (c *Client) get(ctx context.Context, path, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(ErrConnectivity, err.Error())
	}
	req.Header.Set("Accept", accept)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrConnectivity, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(ErrStateValueNotFound, "%s", path)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Wrapf(ErrConnectivity, "node returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(ErrConnectivity, err.Error())
	}
	return body, nil
}
