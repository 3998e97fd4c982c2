// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package asn attributes IP addresses to the autonomous system owning them.
// Lookups go through a caching layer so that repeated traces over the same
// path do not hammer the upstream API: routers reappear in almost every
// measurement cycle.
package asn
