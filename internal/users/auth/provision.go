// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/platform/respond"
	"github.com/taibuivan/handstand/internal/platform/sec"
)

// # Provisioning Gate

// GateConfig is the configuration surface the provisioning gate needs.
type GateConfig interface {
	IsProduction() bool
	ProvisioningSecret() string
}

// ProvisionGate guards the account provisioning endpoints with a shared
// secret.
//
// # Flow
//  1. Resolve the configured secret.
//  2. Unset secret: allow in development (local tooling), refuse with 503
//     NOT_CONFIGURED in production. Fail closed — a deployment mistake must
//     never open the endpoint.
//  3. Extract the presented secret from `Authorization: Bearer <secret>` or
//     the X-Provision-Secret header.
//  4. Compare with [sec.SecretEqual]: length check first, then a
//     constant-time byte comparison. Mismatch is 401.
func ProvisionGate(cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			configured := cfg.ProvisioningSecret()

			// ── 1. Unconfigured Secret ────────────────────────────────────────
			if configured == "" {
				if cfg.IsProduction() {
					respond.Error(writer, request, apperr.NotConfigured("Provisioning is not configured"))
					return
				}
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Secret Extraction ──────────────────────────────────────────
			presented := bearerSecret(request)
			if presented == "" {
				presented = request.Header.Get(constants.HeaderProvisionToken)
			}

			// ── 3. Timing-Safe Comparison ─────────────────────────────────────
			if !sec.SecretEqual(presented, configured) {
				respond.Error(writer, request, apperr.Unauthorized("Invalid provisioning credentials"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerSecret extracts the credential from an Authorization bearer header.
func bearerSecret(request *http.Request) string {
	header := request.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return parts[1]
}
