// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/taibuivan/handstand/internal/platform/admission"
	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/respond"
)

// Admit guards a route group with admission control.
//
// # Flow
//  1. Identify the client by address (proxy-header aware).
//  2. Ask the [admission.Limiter] for a decision on the group.
//  3. Over budget: abort with HTTP 429 plus Retry-After and the advisory
//     X-RateLimit-Limit / X-RateLimit-Window headers.
//
// The decision happens before the handler runs, so rejected floods never
// reach password hashing or store round trips.
func Admit(limiter admission.Limiter, group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision := limiter.Allow(group, RealIP(request))

			if !decision.Allowed {
				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				writer.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
				writer.Header().Set("X-RateLimit-Window", decision.Window.String())
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
