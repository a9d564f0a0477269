// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/z5labs/halo/rest"
)

type removeBookHandler struct {
	store *Store
}

// RemoveBook deletes a book from the catalog, replying with an empty
// body on success.
func RemoveBook(store *Store) rest.ApiOption {
	h := &removeBookHandler{
		store: store,
	}

	return rest.Operation(
		http.MethodDelete,
		bookPath,
		rest.ProduceNothing(h),
	)
}

func (h *removeBookHandler) Consume(ctx context.Context, req *rest.EmptyRequest) error {
	id := rest.PathParamValue(ctx, "id")

	if !h.store.Delete(id) {
		return rest.NotFoundError{
			Cause: fmt.Errorf("no book with id %q", id),
		}
	}
	return nil
}
