// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package asn

import (
	"context"
	"net"
	"time"

	"github.com/wagtail-net/wagtail/internal/helper"
	"github.com/wagtail-net/wagtail/internal/logger"
)

// Attribution labels that never come from the upstream API.
const (
	// LabelPrivate marks addresses from private or loopback ranges, which are
	// not announced in the global routing table.
	LabelPrivate = "Private"
	// LabelUnknown marks addresses whose lookup failed. Unknown entries are
	// soft: they are looked up again on the next attribution and overwritten
	// by the first successful result.
	LabelUnknown = "Unknown"
)

// defaultRetry limits how long a single attribution may block; the lookup
// runs after probing, so it never delays probe pacing.
var defaultRetry = helper.RetryConfig{Count: 2, Delay: 500 * time.Millisecond}

// Cache attributes addresses to the owning network, memoizing results in a
// Store. It never fails: an address that cannot be attributed yields
// LabelUnknown.
type Cache struct {
	store  Store
	lookup Lookup
	retry  helper.RetryConfig
}

// NewCache creates an attribution cache over the given lookup.
func NewCache(lookup Lookup) *Cache {
	return &Cache{
		store:  NewInMemory(),
		lookup: lookup,
		retry:  defaultRetry,
	}
}

// Attribute returns the label of the network owning the address.
func (c *Cache) Attribute(ctx context.Context, addr string) string {
	if ip := net.ParseIP(addr); ip != nil && (ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()) {
		return LabelPrivate
	}

	if label, ok := c.store.Get(addr); ok && label != LabelUnknown {
		return label
	}

	var info Info
	err := helper.Retry(func(ctx context.Context) error {
		var lerr error
		info, lerr = c.lookup.Lookup(ctx, addr)
		return lerr
	}, c.retry)(ctx)
	if err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "Failed to attribute address", "addr", addr, "error", err)
		c.store.Set(addr, LabelUnknown)
		return LabelUnknown
	}

	label := info.Label()
	c.store.Set(addr, label)
	return label
}
