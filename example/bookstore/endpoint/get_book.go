// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/z5labs/halo/hal"
	"github.com/z5labs/halo/rest"
)

var (
	bookPath  = rest.BasePath("/books").Param("id")
	booksPath = rest.BasePath("/books")
)

type getBookHandler struct {
	store *Store
}

// GetBook serves a single book as a HAL resource with self and
// collection links.
func GetBook(store *Store) rest.ApiOption {
	h := &getBookHandler{
		store: store,
	}

	return rest.Operation(
		http.MethodGet,
		bookPath,
		rest.ProduceHal(h, rest.LinkAssemblerFunc[Book](bookLinks)),
	)
}

func (h *getBookHandler) Produce(ctx context.Context) (*Book, error) {
	id := rest.PathParamValue(ctx, "id")

	book, ok := h.store.Get(id)
	if !ok {
		return nil, rest.NotFoundError{
			Cause: fmt.Errorf("no book with id %q", id),
		}
	}
	return &book, nil
}

func bookLinks(ctx context.Context, b *Book) (hal.Links, error) {
	self, err := rest.LinkFor(hal.RelSelf, bookPath, map[string]any{"id": b.ID})
	if err != nil {
		return nil, err
	}

	return hal.Links{
		self,
		rest.TemplatedLink(hal.RelCollection, booksPath.Query("page").Query("size")),
	}, nil
}
