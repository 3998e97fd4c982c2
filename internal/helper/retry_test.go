// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		count     int
		wantCalls int
		wantErr   bool
	}{
		{name: "first call succeeds", failures: 0, count: 3, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, count: 3, wantCalls: 3},
		{name: "retries exhausted", failures: 5, count: 2, wantCalls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			effector := func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errors.New("effector failed")
				}
				return nil
			}

			err := Retry(effector, RetryConfig{Count: tt.count, Delay: time.Millisecond})(t.Context())
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("Retry() calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetry_contextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := Retry(func(context.Context) error {
		return errors.New("effector failed")
	}, RetryConfig{Count: 3, Delay: time.Minute})(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestGetExpBackoff(t *testing.T) {
	tests := []struct {
		name      string
		delay     time.Duration
		iteration int
		want      time.Duration
	}{
		{name: "first iteration", delay: time.Second, iteration: 1, want: time.Second},
		{name: "second iteration", delay: time.Second, iteration: 2, want: 2 * time.Second},
		{name: "fourth iteration", delay: time.Second, iteration: 4, want: 8 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExpBackoff(tt.delay, tt.iteration); got != tt.want {
				t.Errorf("getExpBackoff() = %v, want %v", got, tt.want)
			}
		})
	}
}
