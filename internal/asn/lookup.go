// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package asn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wagtail-net/wagtail/internal/logger"
)

// DefaultAPIBaseURL is the base URL of the BGPView API.
const DefaultAPIBaseURL = "https://api.bgpview.io"

// Info describes the autonomous system owning an address.
type Info struct {
	// Number is the AS number.
	Number int
	// Description is the registered description of the AS, e.g. the name of
	// the operating carrier. May be empty.
	Description string
}

// Label renders the info for attribution: the description if the registry
// carries one, the plain AS number otherwise.
func (i Info) Label() string {
	if i.Description != "" {
		return i.Description
	}
	return fmt.Sprintf("AS%d", i.Number)
}

// Lookup resolves the autonomous system owning an IP address.
//
//go:generate go tool moq -out lookup_moq.go . Lookup
type Lookup interface {
	Lookup(ctx context.Context, addr string) (Info, error)
}

var _ Lookup = (*apiClient)(nil)

// apiClient queries the BGPView API for the prefixes covering an address.
type apiClient struct {
	baseURL string
	client  *http.Client
}

// NewLookup creates a Lookup against the given API base URL. An empty URL
// selects the public BGPView API.
func NewLookup(baseURL string) Lookup {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &apiClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ipResponse is the relevant subset of the BGPView /ip endpoint response.
type ipResponse struct {
	Status string `json:"status"`
	Data   struct {
		Prefixes []struct {
			ASN struct {
				ASN         int    `json:"asn"`
				Description string `json:"description"`
			} `json:"asn"`
		} `json:"prefixes"`
	} `json:"data"`
}

func (c *apiClient) Lookup(ctx context.Context, addr string) (Info, error) {
	log := logger.FromContext(ctx)
	url := fmt.Sprintf("%s/ip/%s", c.baseURL, addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Info{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req) //nolint:bodyclose // Closed in defer below
	if err != nil {
		return Info{}, fmt.Errorf("failed to query AS lookup API: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("AS lookup request failed, status is %s", resp.Status)
	}

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Info{}, fmt.Errorf("failed to decode AS lookup response: %w", err)
	}

	if body.Status != "ok" || len(body.Data.Prefixes) == 0 {
		return Info{}, fmt.Errorf("no AS information for %s", addr)
	}

	// The first prefix is the most specific covering route.
	asn := body.Data.Prefixes[0].ASN
	return Info{Number: asn.ASN, Description: asn.Description}, nil
}
