// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/z5labs/halo"
	"github.com/z5labs/halo/health"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

// ApiOptions holds configuration values used when constructing an [Api].
// This struct is passed to [ApiOption] implementations to configure the
// API's router, OpenAPI specification and health monitors.
type ApiOptions struct {
	mux       *chi.Mux
	def       *openapi3.Spec
	liveness  health.Monitor
	readiness health.Monitor
}

// ApiOption is an interface for configuring an [Api].
//
// Common implementations include:
//   - [Operation] - registers HTTP operations
//   - [Readiness] / [Liveness] - wire health monitors to the probe endpoints
//   - [NotFound] / [MethodNotAllowed] - customize fallback handling
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// Readiness wires the given [health.Monitor] to GET /health/readiness.
// Readiness reports whether the application is ready to serve traffic;
// an unhealthy monitor turns the endpoint into a 503.
func Readiness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.readiness = m
	})
}

// Liveness wires the given [health.Monitor] to GET /health/liveness.
// Liveness reports whether the application should be restarted.
func Liveness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.liveness = m
	})
}

// NotFound configures a custom handler for requests that don't match
// any registered routes.
func NotFound(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed configures a custom handler for requests to valid
// routes with unsupported HTTP methods.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an OpenAPI compliant [http.Handler] for serving HAL APIs.
//
// Every Api automatically provides:
//   - OpenAPI 3.0 schema as JSON at GET /openapi.json
//   - HAL formatted liveness probe at GET /health/liveness
//   - HAL formatted readiness probe at GET /health/readiness
//   - Standard 404 Not Found and 405 Method Not Allowed handling
type Api struct {
	router *chi.Mux
}

// NewApi creates a new [Api] with the specified title and version.
//
// The title and version are included in the OpenAPI specification
// served at /openapi.json. Operations and further configuration are
// added via [ApiOption] parameters.
//
// Example:
//
//	api := rest.NewApi(
//	    "Bookstore API",
//	    "v2.1.0",
//	    rest.Operation(http.MethodGet, rest.BasePath("/books"), listBooksHandler),
//	)
func NewApi(title, version string, opts ...ApiOption) *Api {
	log := halo.Logger("github.com/z5labs/halo/rest")

	ao := &ApiOptions{
		mux: chi.NewMux(),
		def: &openapi3.Spec{
			Openapi: "3.0",
			Info: openapi3.Info{
				Title:   title,
				Version: version,
			},
		},
		liveness: health.MonitorFunc(func(ctx context.Context) (bool, error) {
			return true, nil
		}),
		readiness: health.MonitorFunc(func(ctx context.Context) (bool, error) {
			return true, nil
		}),
	}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		err := enc.Encode(ao.def)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode openapi schema to json",
			slog.Any("error", err),
		)
	})

	ao.mux.Get("/health/liveness", healthEndpoint("/health/liveness", ao.liveness, log))
	ao.mux.Get("/health/readiness", healthEndpoint("/health/readiness", ao.readiness, log))

	return &Api{
		router: ao.mux,
	}
}

// ServeHTTP implements the [http.Handler] interface.
// It delegates request handling to the configured router, which
// dispatches requests to the appropriate operation handlers based on
// method and path.
func (api *Api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(w, req)
}
