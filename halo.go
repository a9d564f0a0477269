// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package halo provides helpers for building hypermedia (HAL) driven
// REST APIs: URI template expansion, HAL document modeling, pagination
// link derivation and an OpenAPI aware HTTP layer for serving it all.
package halo

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which records to the globally
// registered OTel LoggerProvider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns a [slog.Handler] which records to the globally
// registered OTel LoggerProvider.
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
