// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
)

// ErrSendFailed is returned when the probing transport cannot be opened
// (typically due to missing NET_RAW capabilities for the ICMP variant) or a
// probe cannot be transmitted. It is fatal for the affected trace and is not
// retried; other traces in the same batch continue.
var ErrSendFailed = errors.New("failed to send probe")

// isTracerouteError checks if the error is related to common
// and expected traceroute errors.
func isTracerouteError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
