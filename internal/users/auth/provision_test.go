// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/users/auth"
)

type gateConfig struct {
	production bool
	secret     string
}

func (c gateConfig) IsProduction() bool         { return c.production }
func (c gateConfig) ProvisioningSecret() string { return c.secret }

func runGate(cfg gateConfig, decorate func(*http.Request)) *httptest.ResponseRecorder {
	passed := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})

	request := httptest.NewRequest(http.MethodPost, "/users", nil)
	if decorate != nil {
		decorate(request)
	}

	recorder := httptest.NewRecorder()
	auth.ProvisionGate(cfg)(passed).ServeHTTP(recorder, request)
	return recorder
}

func TestProvisionGate(t *testing.T) {
	tests := []struct {
		name           string
		cfg            gateConfig
		decorate       func(*http.Request)
		expectedStatus int
	}{
		{
			name:           "unset_secret_development_allows",
			cfg:            gateConfig{production: false, secret: ""},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "unset_secret_production_fails_closed",
			cfg:            gateConfig{production: true, secret: ""},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "missing_credential",
			cfg:            gateConfig{secret: "hunter2hunter2"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong_credential",
			cfg:  gateConfig{secret: "hunter2hunter2"},
			decorate: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer wrong")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "bearer_credential",
			cfg:  gateConfig{secret: "hunter2hunter2"},
			decorate: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer hunter2hunter2")
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "header_credential",
			cfg:  gateConfig{secret: "hunter2hunter2"},
			decorate: func(r *http.Request) {
				r.Header.Set(constants.HeaderProvisionToken, "hunter2hunter2")
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "bearer_takes_precedence_over_header",
			cfg:  gateConfig{secret: "hunter2hunter2"},
			decorate: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer wrong")
				r.Header.Set(constants.HeaderProvisionToken, "hunter2hunter2")
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := runGate(tt.cfg, tt.decorate)
			assert.Equal(t, tt.expectedStatus, recorder.Code)
		})
	}
}
