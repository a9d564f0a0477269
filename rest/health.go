// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/z5labs/halo/hal"
	"github.com/z5labs/halo/health"
)

type healthStatus struct {
	Status string `json:"status"`
}

// healthEndpoint serves a health probe as a HAL document. The probe
// reports {"status":"UP"} with a 200 when the monitor is healthy and
// {"status":"DOWN"} with a 503 when it is not. Monitor errors are
// logged and treated as unhealthy.
func healthEndpoint(path string, m health.Monitor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		healthy, err := m.Healthy(ctx)
		if err != nil {
			log.ErrorContext(
				ctx,
				"failed to check health monitor",
				slog.String("path", path),
				slog.Any("error", err),
			)
			healthy = false
		}

		status := healthStatus{Status: "UP"}
		code := http.StatusOK
		if !healthy {
			status.Status = "DOWN"
			code = http.StatusServiceUnavailable
		}

		resource := hal.NewResource(status, hal.NewLink(hal.RelSelf, path))

		w.Header().Set("Content-Type", HalContentType)
		w.WriteHeader(code)

		enc := json.NewEncoder(w)
		err = enc.Encode(resource)
		if err == nil {
			return
		}
		log.ErrorContext(
			ctx,
			"failed to encode health status",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}
