// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

// ErrInvalidListeningAddress is returned when no listening address is configured
var ErrInvalidListeningAddress = errors.New("invalid listening address")

// ErrUnsupportedMethod is returned when a route with an unsupported
// http method is registered
type ErrUnsupportedMethod struct {
	Method string
	Path   string
}

func (e ErrUnsupportedMethod) Error() string {
	return fmt.Sprintf("unsupported method %q for route %s", e.Method, e.Path)
}
