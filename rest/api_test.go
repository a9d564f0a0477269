// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/halo/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApi(t *testing.T) {
	t.Run("serves the openapi schema as json", func(t *testing.T) {
		api := NewApi("Bookstore", "v1.2.3")

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/openapi.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var schema struct {
			Openapi string `json:"openapi"`
			Info    struct {
				Title   string `json:"title"`
				Version string `json:"version"`
			} `json:"info"`
		}
		err = json.NewDecoder(resp.Body).Decode(&schema)
		require.NoError(t, err)

		assert.Equal(t, "3.0", schema.Openapi)
		assert.Equal(t, "Bookstore", schema.Info.Title)
		assert.Equal(t, "v1.2.3", schema.Info.Version)
	})

	t.Run("returns 404 for unregistered routes", func(t *testing.T) {
		api := NewApi("Test", "v1")

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/does/not/exist")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("uses the configured not found handler", func(t *testing.T) {
		api := NewApi("Test", "v1",
			NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/does/not/exist")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	})

	t.Run("uses the configured method not allowed handler", func(t *testing.T) {
		api := NewApi("Test", "v1",
			MethodNotAllowed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			})),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/openapi.json", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	})
}

func TestNewApi_health(t *testing.T) {
	getHealth := func(t *testing.T, api *Api, path string) (int, string, map[string]json.RawMessage) {
		t.Helper()

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()

		contentType := resp.Header.Get("Content-Type")

		var doc map[string]json.RawMessage
		err = json.NewDecoder(resp.Body).Decode(&doc)
		require.NoError(t, err)

		return resp.StatusCode, contentType, doc
	}

	t.Run("reports liveness up by default", func(t *testing.T) {
		api := NewApi("Test", "v1")

		code, contentType, doc := getHealth(t, api, "/health/liveness")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, HalContentType, contentType)
		assert.JSONEq(t, `"UP"`, string(doc["status"]))
		assert.JSONEq(t, `{"self": {"href": "/health/liveness"}}`, string(doc["_links"]))
	})

	t.Run("reports readiness up by default", func(t *testing.T) {
		api := NewApi("Test", "v1")

		code, contentType, doc := getHealth(t, api, "/health/readiness")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, HalContentType, contentType)
		assert.JSONEq(t, `"UP"`, string(doc["status"]))
	})

	t.Run("reports readiness down when the monitor is unhealthy", func(t *testing.T) {
		var monitor health.Binary
		api := NewApi("Test", "v1", Readiness(&monitor))

		code, _, doc := getHealth(t, api, "/health/readiness")

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.JSONEq(t, `"DOWN"`, string(doc["status"]))
	})

	t.Run("recovers once the monitor is marked healthy", func(t *testing.T) {
		var monitor health.Binary
		monitor.MarkUnhealthy()
		api := NewApi("Test", "v1", Liveness(&monitor))

		code, _, _ := getHealth(t, api, "/health/liveness")
		require.Equal(t, http.StatusServiceUnavailable, code)

		monitor.MarkHealthy()

		code, _, doc := getHealth(t, api, "/health/liveness")
		assert.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `"UP"`, string(doc["status"]))
	})

	t.Run("treats monitor errors as unhealthy", func(t *testing.T) {
		monitor := health.MonitorFunc(func(ctx context.Context) (bool, error) {
			return true, errors.New("probe failed")
		})
		api := NewApi("Test", "v1", Readiness(monitor))

		code, _, doc := getHealth(t, api, "/health/readiness")

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.JSONEq(t, `"DOWN"`, string(doc["status"]))
	})
}

func TestOperation(t *testing.T) {
	t.Run("registers the operation in the openapi schema", func(t *testing.T) {
		producer := ProducerFunc[testBook](func(ctx context.Context) (*testBook, error) {
			return &testBook{ID: "1", Title: "Domain-Driven Design"}, nil
		})

		api := NewApi("Test", "v1",
			Operation(
				http.MethodGet,
				BasePath("/books").Param("id"),
				ProduceHal(producer, selfLinkAssembler),
			),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/openapi.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var schema struct {
			Paths map[string]json.RawMessage `json:"paths"`
		}
		err = json.Unmarshal(b, &schema)
		require.NoError(t, err)

		assert.Contains(t, schema.Paths, "/books/{id}")
	})

	t.Run("returns 500 when the handler fails with an unknown error", func(t *testing.T) {
		producer := ProducerFunc[testBook](func(ctx context.Context) (*testBook, error) {
			return nil, errors.New("boom")
		})

		api := NewApi("Test", "v1",
			Operation(
				http.MethodGet,
				BasePath("/books").Param("id"),
				ProduceHal(producer, selfLinkAssembler),
			),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/books/1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("returns 404 when the handler reports not found", func(t *testing.T) {
		producer := ProducerFunc[testBook](func(ctx context.Context) (*testBook, error) {
			return nil, NotFoundError{Cause: errors.New("no such book")}
		})

		api := NewApi("Test", "v1",
			Operation(
				http.MethodGet,
				BasePath("/books").Param("id"),
				ProduceHal(producer, selfLinkAssembler),
			),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/books/missing")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("uses the configured error handler", func(t *testing.T) {
		producer := ProducerFunc[testBook](func(ctx context.Context) (*testBook, error) {
			return nil, errors.New("boom")
		})

		api := NewApi("Test", "v1",
			Operation(
				http.MethodGet,
				BasePath("/books").Param("id"),
				ProduceHal(producer, selfLinkAssembler),
				OnError(ErrorHandlerFunc(func(ctx context.Context, w http.ResponseWriter, err error) {
					w.WriteHeader(http.StatusBadGateway)
				})),
			),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/books/1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("recovers from handler panics", func(t *testing.T) {
		producer := ProducerFunc[testBook](func(ctx context.Context) (*testBook, error) {
			panic("boom")
		})

		api := NewApi("Test", "v1",
			Operation(
				http.MethodGet,
				BasePath("/books").Param("id"),
				ProduceHal(producer, selfLinkAssembler),
			),
		)

		srv := httptest.NewServer(api)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/books/1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
