// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_isTracerouteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Deadline exceeded", context.DeadlineExceeded, true},
		{"Canceled", context.Canceled, true},
		{"Wrapped deadline", fmt.Errorf("read failed: %w", context.DeadlineExceeded), true},
		{"Other error", errors.New("boom"), false},
		{"Nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTracerouteError(tt.err))
		})
	}
}

func TestErrSendFailed_wrapping(t *testing.T) {
	err := fmt.Errorf("%w: failed to open ICMP socket: operation not permitted", ErrSendFailed)
	assert.ErrorIs(t, err, ErrSendFailed)
}
