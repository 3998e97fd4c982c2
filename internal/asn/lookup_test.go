// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package asn

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestAPIClient_Lookup(t *testing.T) {
	tests := []struct {
		name     string
		mockCode int
		mockBody any
		want     Info
		wantErr  bool
	}{
		{
			name:     "success",
			mockCode: http.StatusOK,
			mockBody: map[string]any{
				"status": "ok",
				"data": map[string]any{
					"prefixes": []map[string]any{
						{"asn": map[string]any{"asn": 3320, "description": "Deutsche Telekom AG"}},
						{"asn": map[string]any{"asn": 3320, "description": "DTAG aggregate"}},
					},
				},
			},
			want: Info{Number: 3320, Description: "Deutsche Telekom AG"},
		},
		{
			name:     "success - no description",
			mockCode: http.StatusOK,
			mockBody: map[string]any{
				"status": "ok",
				"data": map[string]any{
					"prefixes": []map[string]any{
						{"asn": map[string]any{"asn": 64512}},
					},
				},
			},
			want: Info{Number: 64512},
		},
		{
			name:     "failure - no covering prefix",
			mockCode: http.StatusOK,
			mockBody: map[string]any{
				"status": "ok",
				"data":   map[string]any{"prefixes": []map[string]any{}},
			},
			wantErr: true,
		},
		{
			name:     "failure - API error status",
			mockCode: http.StatusOK,
			mockBody: map[string]any{"status": "error"},
			wantErr:  true,
		},
		{
			name:     "failure - HTTP error",
			mockCode: http.StatusTooManyRequests,
			mockBody: map[string]any{},
			wantErr:  true,
		},
	}

	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httpmock.NewJsonResponderOrPanic(tt.mockCode, tt.mockBody)
			httpmock.RegisterResponder(http.MethodGet, fmt.Sprintf("%s/ip/80.150.170.1", DefaultAPIBaseURL), resp)

			c := &apiClient{baseURL: DefaultAPIBaseURL, client: http.DefaultClient}
			got, err := c.Lookup(t.Context(), "80.150.170.1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfo_Label(t *testing.T) {
	assert.Equal(t, "Deutsche Telekom AG", Info{Number: 3320, Description: "Deutsche Telekom AG"}.Label())
	assert.Equal(t, "AS3320", Info{Number: 3320}.Label())
}
