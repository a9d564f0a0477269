// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/z5labs/halo/example/bookstore/endpoint"
	"github.com/z5labs/halo/health"
	"github.com/z5labs/halo/rest"
)

func main() {
	store := endpoint.NewStore(
		endpoint.Book{ID: "1", Title: "The Go Programming Language", Author: "Donovan & Kernighan"},
		endpoint.Book{ID: "2", Title: "Domain-Driven Design", Author: "Evans"},
		endpoint.Book{ID: "3", Title: "Release It!", Author: "Nygard"},
	)

	var readiness health.Binary
	readiness.MarkHealthy()

	api := rest.NewApi(
		"Bookstore",
		"v1.0.0",
		rest.Readiness(&readiness),
		endpoint.GetBook(store),
		endpoint.ListBooks(store),
		endpoint.RemoveBook(store),
	)

	err := http.ListenAndServe(":8080", api)
	if err != nil {
		slog.Error("failed to serve http", slog.Any("error", err))
		os.Exit(1)
	}
}
