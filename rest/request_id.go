// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDCtxKey struct{}

// RequestID attaches a unique id to every request handled by the
// operation. The id is taken from the X-Request-ID header when the
// client supplies one and generated otherwise, and can be read back
// with [RequestIDValue].
func RequestID() OperationOption {
	return func(oo *OperationOptions) {
		oo.transforms = append(oo.transforms, func(r *http.Request) (*http.Request, error) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), requestIDCtxKey{}, id)
			return r.WithContext(ctx), nil
		})
	}
}

// RequestIDValue returns the request id attached by [RequestID], or the
// empty string when none was attached.
func RequestIDValue(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}
