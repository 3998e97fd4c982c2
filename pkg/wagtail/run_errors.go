// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package wagtail

import "errors"

// ErrFinalShutdown is returned by Run once the wagtail
// instance has been shut down completely
var ErrFinalShutdown = errors.New("wagtail was shut down")

// ErrShutdown holds any errors that may
// have occurred during shutdown of the wagtail instance
type ErrShutdown struct {
	errAPI     error
	errDB      error
	errMetrics error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errAPI != nil || e.errDB != nil || e.errMetrics != nil
}
