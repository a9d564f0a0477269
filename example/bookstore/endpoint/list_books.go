// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"github.com/z5labs/halo/hal"
	"github.com/z5labs/halo/rest"
)

const defaultPageSize = 20

type listBooksHandler struct {
	store *Store
}

// ListBooks serves the book catalog one page at a time as a HAL
// collection with derived pagination links.
func ListBooks(store *Store) rest.ApiOption {
	h := &listBooksHandler{
		store: store,
	}

	numeric := regexp.MustCompile(`^\d+$`)

	return rest.Operation(
		http.MethodGet,
		booksPath.
			Query("page", rest.Regex(numeric)).
			Query("size", rest.Regex(numeric)),
		rest.ProducePage("books", booksPath, h),
	)
}

func (h *listBooksHandler) Produce(ctx context.Context) (*rest.Page[Book], error) {
	page := queryInt(ctx, "page", 0)
	size := queryInt(ctx, "size", defaultPageSize)

	books, total := h.store.List(page, size)

	return &rest.Page[Book]{
		Items: books,
		Metadata: hal.PageMetadata{
			Number:        page,
			Size:          size,
			TotalElements: total,
		},
		Sort: []hal.SortOrder{hal.Asc("id")},
	}, nil
}

func queryInt(ctx context.Context, name string, fallback int) int {
	vs := rest.QueryParamValue(ctx, name)
	if len(vs) == 0 {
		return fallback
	}

	n, err := strconv.Atoi(vs[0])
	if err != nil {
		return fallback
	}
	return n
}
