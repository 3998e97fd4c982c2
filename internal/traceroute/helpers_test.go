// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ipFromAddr(t *testing.T) {
	ip := net.ParseIP("100.1.1.7")
	tests := []struct {
		name string
		addr net.Addr
		want net.IP
	}{
		{"UDP address", &net.UDPAddr{IP: ip, Port: 33434}, ip},
		{"TCP address", &net.TCPAddr{IP: ip, Port: 80}, ip},
		{"IP address", &net.IPAddr{IP: ip}, ip},
		{"Unix address is not routable", &net.UnixAddr{Name: "/tmp/sock"}, nil},
		{"Nil address", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ipFromAddr(tt.addr))
		})
	}
}

func Test_durationMs(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want float64
	}{
		{"Milliseconds", "12ms", 12},
		{"Sub-millisecond", "250µs", 0.25},
		{"Seconds", "1.5s", 1500},
		{"Zero", "0s", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := time.ParseDuration(tt.d)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, durationMs(d))
		})
	}
}
